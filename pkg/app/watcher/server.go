// Package watcher implements app.Runner for the standalone confirmation watcher process.
package watcher

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/bridge-claims/pkg/app/http"
	"github.com/chainsafe/bridge-claims/pkg/config"
	"github.com/chainsafe/bridge-claims/pkg/ethereum"
	"github.com/chainsafe/bridge-claims/pkg/ledger"
	"github.com/chainsafe/bridge-claims/pkg/pgutil"
	"github.com/chainsafe/bridge-claims/pkg/registry"
	"github.com/chainsafe/bridge-claims/pkg/watcher"
)

// Server holds configuration for the watcher process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new watcher Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run starts the confirmation engine and the operational HTTP server.
// It blocks until an OS shutdown signal is received or a fatal server error occurs.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging, "watcher")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bridge confirmation watcher", zap.String("ledger_backend", cfg.Ledger.Backend))

	reg, err := registry.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	clients, err := ethereum.DialNetworks(reg, nil, cfg.Bridge.ReceiptTimeout, logger)
	if err != nil {
		return fmt.Errorf("connect networks: %w", err)
	}
	defer func() {
		for _, c := range clients {
			c.Close()
		}
	}()

	repo, cleanup, err := s.openRepository(logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var publisher ledger.Publisher = ledger.NopPublisher{}
	if cfg.Events.Enabled {
		kp, err := ledger.NewKafkaPublisher(cfg.Events, logger)
		if err != nil {
			return fmt.Errorf("setup event publisher: %w", err)
		}
		defer func() { _ = kp.Close() }()
		publisher = kp
	}

	txLedger := ledger.New(repo, reg, publisher, cfg.Ledger.ListWindow, logger)

	sources := make(map[uint64]watcher.BlockSource, len(clients))
	for id, c := range clients {
		sources[id] = c
	}

	engine := watcher.NewEngine(txLedger, sources, cfg.Bridge.WatchInterval, cfg.Bridge.WatchBatchSize, logger)
	engine.Start(ctx)
	defer engine.Stop()

	router := s.newRouter(engine, txLedger, reg, logger)

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) openRepository(logger *zap.Logger) (ledger.Repository, func(), error) {
	cfg := s.cfg

	switch cfg.Ledger.Backend {
	case config.LedgerBackendPostgres:
		db, err := pgutil.ConnectDB(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect ledger db: %w", err)
		}
		logger.Info("Database connection established")
		repo, err := ledger.NewRepository(cfg.Ledger.Backend, db, nil, "")
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil

	case config.LedgerBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("Redis connection established", zap.String("addr", cfg.Redis.Addr))
		repo, err := ledger.NewRepository(cfg.Ledger.Backend, nil, rdb, cfg.Redis.Prefix)
		if err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return repo, func() { _ = rdb.Close() }, nil
	}
	return nil, nil, fmt.Errorf("ledger backend %q cannot be shared with the API server", cfg.Ledger.Backend)
}

func (s *Server) newRouter(engine *watcher.Engine, l *ledger.Ledger, reg *registry.Registry, logger *zap.Logger) http.Handler {
	cfg := s.cfg

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if !engine.IsReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	if cfg.Monitoring.MetricsEnabled() {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/pending", apphttp.HandleError(handleGetPending(l)))
		r.Get("/status", handleGetStatus(engine, reg))
	})

	return r
}

// handleGetPending lists entries still waiting for finality, oldest first.
func handleGetPending(l *ledger.Ledger) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		pending, err := l.Pending(r.Context(), parseOffset(q.Get("offset")), parseLimit(q.Get("limit")))
		if err != nil {
			return err
		}
		apphttp.WriteJSON(w, http.StatusOK, map[string]any{"transactions": pending})
		return nil
	}
}

type chainStatus struct {
	ChainID               uint64 `json:"chain_id"`
	LastCheckedBlock      uint64 `json:"last_checked_block"`
	RequiredConfirmations uint64 `json:"required_confirmations"`
}

func handleGetStatus(engine *watcher.Engine, reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		chains := make([]chainStatus, 0)
		for _, n := range reg.Networks() {
			head, ok := engine.LastBlock(n.ChainID)
			if !ok {
				continue
			}
			chains = append(chains, chainStatus{
				ChainID:               n.ChainID,
				LastCheckedBlock:      head,
				RequiredConfirmations: reg.RequiredConfirmations(n.ChainID),
			})
		}
		apphttp.WriteJSON(w, http.StatusOK, map[string]any{
			"ready":  engine.IsReady(),
			"chains": chains,
		})
	}
}

const (
	defaultPendingLimit = 100
	maxPendingLimit     = 1000
)

func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultPendingLimit
	}
	return min(n, maxPendingLimit)
}

func parseOffset(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
