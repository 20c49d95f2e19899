package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment overrides, e.g. BRIDGE_SIGNER_PRIVATE_KEY.
const envPrefix = "BRIDGE"

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	Networks   []NetworkConfig  `yaml:"networks" validate:"required,min=1,dive"`
	Tokens     []TokenConfig    `yaml:"tokens" validate:"dive"`
	Validators ValidatorsConfig `yaml:"validators"`
	Signer     SignerConfig     `yaml:"signer"`
	Bridge     BridgeConfig     `yaml:"bridge"`
	Events     EventsConfig     `yaml:"events"`
	Auth       AuthConfig       `yaml:"auth"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"gt=0,lt=65536"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" default:"85s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"bridge_claims"`
	SSLMode  string `yaml:"ssl_mode" default:"disable"`

	MaxOpenConns    int           `yaml:"max_open_conns" default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"30m"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" default:"10s"`
}

// RedisConfig contains redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"bridge:"`
}

// Ledger backends
const (
	LedgerBackendMemory   = "memory"
	LedgerBackendPostgres = "postgres"
	LedgerBackendRedis    = "redis"
)

// LedgerConfig selects the transaction ledger backing store
type LedgerConfig struct {
	Backend    string `yaml:"backend" default:"memory" validate:"oneof=memory postgres redis"`
	ListWindow int    `yaml:"list_window" default:"50" validate:"gt=0"`
}

// NetworkConfig describes one EVM chain the bridge operates on
type NetworkConfig struct {
	ChainID               uint64 `yaml:"chain_id" validate:"required"`
	Name                  string `yaml:"name" validate:"required"`
	NativeSymbol          string `yaml:"native_symbol" default:"ETH"`
	RPCURL                string `yaml:"rpc_url" validate:"required,url"`
	BridgeContract        string `yaml:"bridge_contract" validate:"required,eth_addr"`
	RequiredConfirmations uint64 `yaml:"required_confirmations"`
	MinGasBalance         string `yaml:"min_gas_balance" default:"0"`
	GasLimit              uint64 `yaml:"gas_limit"` // zero lets the node estimate
	MaxGasPrice           string `yaml:"max_gas_price"`
	ExplorerURL           string `yaml:"explorer_url"`
}

// TokenConfig describes a bridgeable token and its deployment per chain
type TokenConfig struct {
	Symbol      string                  `yaml:"symbol" validate:"required"`
	Name        string                  `yaml:"name"`
	Deployments []TokenDeploymentConfig `yaml:"deployments" validate:"required,min=1,dive"`
}

// TokenDeploymentConfig is a token address on one chain. Address "native" marks the
// chain's native asset; an empty address marks the token as not deployed there.
type TokenDeploymentConfig struct {
	ChainID  uint64 `yaml:"chain_id" validate:"required"`
	Address  string `yaml:"address"`
	Decimals *uint8 `yaml:"decimals" default:"18"`
}

// Aggregation strategies
const (
	StrategySequential = "sequential"
	StrategyFanOut     = "fanout"
)

// ValidatorsConfig contains the attestation validator set
type ValidatorsConfig struct {
	Endpoints      []string      `yaml:"endpoints" validate:"required,min=1,dive,url"`
	Threshold      int           `yaml:"threshold" validate:"required,gt=0,ltfield=EndpointCount"`
	Attempts       int           `yaml:"attempts" default:"3" validate:"gt=0"`
	RetryDelay     time.Duration `yaml:"retry_delay" default:"1s"`
	RequestTimeout time.Duration `yaml:"request_timeout" default:"10s"`
	Strategy       string        `yaml:"strategy" default:"sequential" validate:"oneof=sequential fanout"`
	Concurrency    int           `yaml:"concurrency" default:"4" validate:"gt=0"`
	PollInterval   time.Duration `yaml:"poll_interval" default:"15s"`
	PollAttempts   int           `yaml:"poll_attempts" default:"20" validate:"gt=0"`

	// EndpointCount mirrors len(Endpoints) so the threshold can be checked against it.
	EndpointCount int `yaml:"-"`
}

// SignerConfig selects how transactions are signed
type SignerConfig struct {
	PrivateKey          string `yaml:"private_key"`
	EncryptedPrivateKey string `yaml:"encrypted_private_key"`
	MasterKey           string `yaml:"master_key"`
	ExternalURL         string `yaml:"external_url"`
}

// Approval policies used before non-native deposits
const (
	ApprovalExact     = "exact"
	ApprovalUnbounded = "unbounded"
	ApprovalNone      = "none"
)

// BridgeConfig contains bridge operation settings
type BridgeConfig struct {
	ApprovalPolicy     string        `yaml:"approval_policy" default:"exact" validate:"oneof=exact unbounded none"`
	ReceiptTimeout     time.Duration `yaml:"receipt_timeout" default:"3m"`
	WatchConfirmations *bool         `yaml:"watch_confirmations" default:"true"`
	WatchInterval      time.Duration `yaml:"watch_interval" default:"15s"`
	WatchBatchSize     int           `yaml:"watch_batch_size" default:"200"`
}

// EventsConfig configures the ledger event sink
type EventsConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic" default:"bridge.transactions"`
	ClientID string   `yaml:"client_id" default:"bridge-claims"`
}

// AuthConfig configures request authentication for mutating endpoints
type AuthConfig struct {
	Enabled         bool          `yaml:"enabled"`
	JWKSURL         string        `yaml:"jwks_url"`
	Issuer          string        `yaml:"issuer"`
	SignatureMaxAge time.Duration `yaml:"signature_max_age" default:"5m"`
	ReplayStore     string        `yaml:"replay_store" default:"memory" validate:"oneof=memory redis"`
}

// WatcherEnabled reports whether the confirmation watcher should run.
func (c BridgeConfig) WatcherEnabled() bool {
	return c.WatchConfirmations == nil || *c.WatchConfirmations
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled *bool `yaml:"enabled" default:"true"`
}

// MetricsEnabled reports whether /metrics should be served.
func (c MonitoringConfig) MetricsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"json"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// secrets are the values that may be supplied through the environment instead of the file.
type secrets struct {
	SignerPrivateKey string `envconfig:"SIGNER_PRIVATE_KEY"`
	SignerMasterKey  string `envconfig:"SIGNER_MASTER_KEY"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
	RedisPassword    string `envconfig:"REDIS_PASSWORD"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// LoadWatcher loads configuration for the standalone watcher process, which
// needs no signer but a ledger shared with the API server.
func LoadWatcher(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseWatcher(data)
}

// Parse decodes YAML configuration, applies defaults and environment overrides, and validates it.
func Parse(data []byte) (*Config, error) {
	return parse(data, validate)
}

// ParseWatcher is Parse with the watcher process checks.
func ParseWatcher(data []byte) (*Config, error) {
	return parse(data, validateWatcher)
}

func parse(data []byte, check func(*Config) error) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := check(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var s secrets
	if err := envconfig.Process(envPrefix, &s); err != nil {
		return err
	}
	if s.SignerPrivateKey != "" {
		cfg.Signer.PrivateKey = s.SignerPrivateKey
	}
	if s.SignerMasterKey != "" {
		cfg.Signer.MasterKey = s.SignerMasterKey
	}
	if s.DatabasePassword != "" {
		cfg.Database.Password = s.DatabasePassword
	}
	if s.RedisPassword != "" {
		cfg.Redis.Password = s.RedisPassword
	}
	return nil
}

func validateCommon(cfg *Config) error {
	cfg.Validators.EndpointCount = len(cfg.Validators.Endpoints)

	if err := validator.New().Struct(cfg); err != nil {
		return err
	}

	seen := make(map[uint64]struct{}, len(cfg.Networks))
	for _, n := range cfg.Networks {
		if _, dup := seen[n.ChainID]; dup {
			return fmt.Errorf("networks: duplicate chain_id %d", n.ChainID)
		}
		seen[n.ChainID] = struct{}{}
	}

	if cfg.Ledger.Backend == LedgerBackendPostgres && cfg.Database.Host == "" {
		return errors.New("database.host is required for the postgres ledger")
	}
	if cfg.Events.Enabled && len(cfg.Events.Brokers) == 0 {
		return errors.New("events.brokers is required when events are enabled")
	}
	return nil
}

func validateWatcher(cfg *Config) error {
	if err := validateCommon(cfg); err != nil {
		return err
	}
	if cfg.Ledger.Backend == LedgerBackendMemory {
		return errors.New("the watcher process needs a shared ledger backend (postgres or redis)")
	}
	return nil
}

func validate(cfg *Config) error {
	if err := validateCommon(cfg); err != nil {
		return err
	}

	signers := 0
	if cfg.Signer.PrivateKey != "" {
		signers++
	}
	if cfg.Signer.EncryptedPrivateKey != "" {
		signers++
		if cfg.Signer.MasterKey == "" {
			return errors.New("signer.master_key is required with signer.encrypted_private_key")
		}
	}
	if cfg.Signer.ExternalURL != "" {
		signers++
	}
	if signers != 1 {
		return errors.New("exactly one of signer.private_key, signer.encrypted_private_key or signer.external_url is required")
	}

	if cfg.Auth.Enabled && cfg.Auth.JWKSURL == "" && cfg.Auth.SignatureMaxAge <= 0 {
		return errors.New("auth requires jwks_url or a positive signature_max_age")
	}
	return nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
