package main

import (
	"context"
	"flag"
	"log"

	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/config"
	"github.com/chainsafe/bridge-claims/pkg/migrations/ledgerdb"
	"github.com/chainsafe/bridge-claims/pkg/pgutil"
	mghelper "github.com/chainsafe/bridge-claims/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	// Migrations need no signer, so the watcher rules apply.
	cfg, err := config.LoadWatcher(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}
	if cfg.Ledger.Backend != config.LedgerBackendPostgres {
		log.Fatalf("ledger backend is %q; migrations only apply to postgres", cfg.Ledger.Backend)
	}

	logger, err := config.NewLogger(cfg.Logging, "migrate")
	if err != nil {
		log.Fatalf("error creating logger: %s", err.Error())
	}
	defer func() { _ = logger.Sync() }()

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Running ledger migrations", zap.String("database", cfg.Database.Database))

	migrator := migrate.NewMigrator(db, ledgerdb.Migrations)
	if err := mghelper.RunMigrations(context.Background(), migrator, logger, flag.Args()...); err != nil {
		mghelper.Exitf("%s", err.Error())
	}
}
