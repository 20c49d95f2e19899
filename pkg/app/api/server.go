// Package api implements app.Runner for the bridge API server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/allowance"
	apphttp "github.com/chainsafe/bridge-claims/pkg/app/http"
	"github.com/chainsafe/bridge-claims/pkg/attestation"
	"github.com/chainsafe/bridge-claims/pkg/auth"
	bridgeservice "github.com/chainsafe/bridge-claims/pkg/bridge/service"
	"github.com/chainsafe/bridge-claims/pkg/claim"
	"github.com/chainsafe/bridge-claims/pkg/config"
	"github.com/chainsafe/bridge-claims/pkg/deposit"
	"github.com/chainsafe/bridge-claims/pkg/ethereum"
	"github.com/chainsafe/bridge-claims/pkg/ledger"
	"github.com/chainsafe/bridge-claims/pkg/pgutil"
	"github.com/chainsafe/bridge-claims/pkg/registry"
	"github.com/chainsafe/bridge-claims/pkg/watcher"
)

const replayPruneInterval = time.Minute

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run wires every component and serves HTTP until an OS shutdown signal is received.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging, "api")
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bridge API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("ledger_backend", cfg.Ledger.Backend),
	)

	reg, err := registry.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	signer, err := ethereum.NewSigner(cfg.Signer)
	if err != nil {
		return fmt.Errorf("setup signer: %w", err)
	}

	clients, err := ethereum.DialNetworks(reg, signer, cfg.Bridge.ReceiptTimeout, logger)
	if err != nil {
		return fmt.Errorf("connect networks: %w", err)
	}
	defer func() {
		for _, c := range clients {
			c.Close()
		}
	}()

	db, rdb, err := s.openStores(logger)
	if err != nil {
		return err
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	publisher, err := s.openPublisher(logger)
	if err != nil {
		return err
	}
	defer func() { _ = publisher.Close() }()

	repo, err := ledger.NewRepository(cfg.Ledger.Backend, db, rdb, cfg.Redis.Prefix)
	if err != nil {
		return fmt.Errorf("setup ledger: %w", err)
	}
	txLedger := ledger.New(repo, reg, publisher, cfg.Ledger.ListWindow, logger)

	validators := make([]attestation.Validator, 0, len(cfg.Validators.Endpoints))
	for _, endpoint := range cfg.Validators.Endpoints {
		validators = append(validators, attestation.NewClient(endpoint, cfg.Validators.RequestTimeout))
	}
	aggregator, err := attestation.NewAggregator(validators, attestation.ConfigFrom(cfg.Validators), logger)
	if err != nil {
		return fmt.Errorf("setup aggregator: %w", err)
	}

	allowanceChains := make(map[uint64]allowance.Chain, len(clients))
	depositChains := make(map[uint64]deposit.Chain, len(clients))
	claimChains := make(map[uint64]claim.Chain, len(clients))
	blockSources := make(map[uint64]watcher.BlockSource, len(clients))
	for id, c := range clients {
		allowanceChains[id] = c
		depositChains[id] = c
		claimChains[id] = c
		blockSources[id] = c
	}

	allowances := allowance.NewManager(reg, allowanceChains, logger)
	deposits := deposit.NewSubmitter(reg, depositChains, allowances, txLedger,
		allowance.Policy(cfg.Bridge.ApprovalPolicy), logger)
	claims := claim.NewSubmitter(reg, aggregator, claimChains, txLedger, logger)

	var engine *watcher.Engine
	if cfg.Bridge.WatcherEnabled() {
		engine = watcher.NewEngine(txLedger, blockSources, cfg.Bridge.WatchInterval, cfg.Bridge.WatchBatchSize, logger)
		engine.Start(ctx)
		// Stopped explicitly after ServeAndWait returns; the defer covers early exits.
		defer engine.Stop()
	}

	protect, err := s.authenticator(ctx, rdb, logger)
	if err != nil {
		return err
	}

	svc := bridgeservice.NewService(bridgeservice.Dependencies{
		Registry:     reg,
		Allowances:   allowances,
		Deposits:     deposits,
		Claims:       claims,
		Attestations: aggregator,
		Ledger:       txLedger,
	}, logger)

	router := s.setupRouter(bridgeservice.NewLog(svc, logger), protect, engine, logger)

	err = apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)

	if engine != nil {
		engine.Stop()
	}
	return err
}

// openStores connects the postgres and redis clients the configured backends need.
func (s *Server) openStores(logger *zap.Logger) (*bun.DB, *redis.Client, error) {
	cfg := s.cfg

	var db *bun.DB
	if cfg.Ledger.Backend == config.LedgerBackendPostgres {
		var err error
		db, err = pgutil.ConnectDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to database",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
	}

	needRedis := cfg.Ledger.Backend == config.LedgerBackendRedis ||
		(cfg.Auth.Enabled && cfg.Auth.ReplayStore == "redis")
	if !needRedis {
		return db, nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		if db != nil {
			_ = db.Close()
		}
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("Connected to redis", zap.String("addr", cfg.Redis.Addr))
	return db, rdb, nil
}

func (s *Server) openPublisher(logger *zap.Logger) (ledger.Publisher, error) {
	if !s.cfg.Events.Enabled {
		return ledger.NopPublisher{}, nil
	}
	p, err := ledger.NewKafkaPublisher(s.cfg.Events, logger)
	if err != nil {
		return nil, fmt.Errorf("setup event publisher: %w", err)
	}
	logger.Info("Publishing ledger events",
		zap.Strings("brokers", s.cfg.Events.Brokers),
		zap.String("topic", s.cfg.Events.Topic),
	)
	return p, nil
}

// authenticator returns the middleware guarding mutating routes, or nil when auth is disabled.
func (s *Server) authenticator(ctx context.Context, rdb *redis.Client, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	cfg := s.cfg.Auth
	if !cfg.Enabled {
		logger.Warn("Authentication disabled; mutating endpoints are open")
		return nil, nil
	}

	var tokens auth.TokenValidator
	if cfg.JWKSURL != "" {
		v := auth.NewJWTValidator(cfg.JWKSURL, cfg.Issuer, &http.Client{Timeout: 10 * time.Second})
		if err := v.Refresh(ctx); err != nil {
			logger.Warn("Initial JWKS fetch failed (will retry on demand)", zap.Error(err))
		}
		tokens = v
	}

	var replay auth.ReplayGuard
	if cfg.ReplayStore == "redis" {
		replay = auth.NewRedisReplayGuard(rdb, s.cfg.Redis.Prefix)
	} else {
		mem := auth.NewMemoryReplayGuard()
		go pruneReplays(ctx, mem)
		replay = mem
	}

	logger.Info("Authentication enabled",
		zap.Bool("jwt", tokens != nil),
		zap.Duration("signature_max_age", cfg.SignatureMaxAge),
		zap.String("replay_store", cfg.ReplayStore),
	)
	return auth.NewAuthenticator(tokens, replay, cfg.SignatureMaxAge, logger).Middleware, nil
}

func pruneReplays(ctx context.Context, guard *auth.MemoryReplayGuard) {
	ticker := time.NewTicker(replayPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			guard.Prune()
		}
	}
}

func (s *Server) setupRouter(
	svc bridgeservice.Service,
	protect func(http.Handler) http.Handler,
	engine *watcher.Engine,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if engine != nil && !engine.IsReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	if s.cfg.Monitoring.MetricsEnabled() {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	bridgeservice.RegisterRoutes(r, svc, protect, logger)

	return r
}
