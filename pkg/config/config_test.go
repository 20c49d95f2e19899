package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
networks:
  - chain_id: 1
    name: Ethereum
    rpc_url: https://eth.example.org
    bridge_contract: "0x1111111111111111111111111111111111111111"
    required_confirmations: 12
  - chain_id: 56
    name: BNB Chain
    native_symbol: BNB
    rpc_url: https://bsc.example.org
    bridge_contract: "0x2222222222222222222222222222222222222222"
tokens:
  - symbol: USDT
    deployments:
      - chain_id: 1
        address: "0xdAC17F958D2ee523a2206206994597C13D831ec7"
        decimals: 6
      - chain_id: 56
        address: "0x55d398326f99059fF775485246999027B3197955"
validators:
  endpoints:
    - https://v1.example.org/
    - https://v2.example.org/
    - https://v3.example.org/
    - https://v4.example.org/
  threshold: 3
signer:
  private_key: "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Validators.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", cfg.Validators.Attempts)
	}
	if cfg.Validators.RetryDelay != time.Second {
		t.Fatalf("expected 1s retry delay, got %s", cfg.Validators.RetryDelay)
	}
	if cfg.Validators.Strategy != StrategySequential {
		t.Fatalf("expected sequential strategy, got %s", cfg.Validators.Strategy)
	}
	if cfg.Ledger.Backend != LedgerBackendMemory {
		t.Fatalf("expected memory ledger, got %s", cfg.Ledger.Backend)
	}
	if !cfg.Monitoring.MetricsEnabled() || !cfg.Bridge.WatcherEnabled() {
		t.Fatal("expected metrics and watcher enabled by default")
	}
	if cfg.Networks[0].NativeSymbol != "ETH" {
		t.Fatalf("expected default native symbol ETH, got %s", cfg.Networks[0].NativeSymbol)
	}

	usdt := cfg.Tokens[0]
	if got := *usdt.Deployments[0].Decimals; got != 6 {
		t.Fatalf("expected explicit decimals 6, got %d", got)
	}
	if got := *usdt.Deployments[1].Decimals; got != 18 {
		t.Fatalf("expected default decimals 18, got %d", got)
	}
}

func TestParse_ThresholdMustBeBelowValidatorCount(t *testing.T) {
	raw := strings.Replace(validYAML, "threshold: 3", "threshold: 4", 1)
	if _, err := Parse([]byte(raw)); err == nil {
		t.Fatal("expected threshold validation error")
	}
}

func TestParse_RequiresExactlyOneSigner(t *testing.T) {
	raw := strings.Replace(validYAML, `  private_key: "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"`,
		`  external_url: http://localhost:8550`+"\n"+`  private_key: "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"`, 1)
	if _, err := Parse([]byte(raw)); err == nil {
		t.Fatal("expected signer validation error")
	}
}

func TestParse_RejectsDuplicateChain(t *testing.T) {
	raw := strings.Replace(validYAML, "chain_id: 56\n    name: BNB Chain", "chain_id: 1\n    name: BNB Chain", 1)
	if _, err := Parse([]byte(raw)); err == nil {
		t.Fatal("expected duplicate chain error")
	}
}

func TestParseWatcher(t *testing.T) {
	noSigner := strings.Replace(validYAML,
		"signer:\n  private_key: \"4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318\"\n", "", 1)

	if _, err := ParseWatcher([]byte(noSigner)); err == nil {
		t.Fatal("expected the memory ledger to be rejected")
	}

	shared := noSigner + "ledger:\n  backend: redis\n"
	cfg, err := ParseWatcher([]byte(shared))
	if err != nil {
		t.Fatalf("ParseWatcher() failed: %v", err)
	}
	if cfg.Ledger.Backend != LedgerBackendRedis {
		t.Fatalf("expected redis ledger, got %s", cfg.Ledger.Backend)
	}

	if _, err := Parse([]byte(shared)); err == nil {
		t.Fatal("expected the api config to require a signer")
	}
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("BRIDGE_DATABASE_PASSWORD", "from-env")
	t.Setenv("BRIDGE_SIGNER_PRIVATE_KEY", "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Password != "from-env" {
		t.Fatalf("expected database password from env, got %q", cfg.Database.Password)
	}
	if !strings.HasPrefix(cfg.Signer.PrivateKey, "59c6995e") {
		t.Fatalf("expected signer key from env, got %q", cfg.Signer.PrivateKey)
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "debug", Format: "console"}, "test")
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}
	_ = logger.Sync()

	if _, err := NewLogger(LoggingConfig{Level: "loud", Format: "json"}, "test"); err == nil {
		t.Fatal("expected invalid level error")
	}
	if _, err := NewLogger(LoggingConfig{Level: "info", Format: "xml"}, "test"); err == nil {
		t.Fatal("expected unknown format error")
	}
}
