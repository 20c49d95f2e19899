// Package migrations holds the schema helpers and the command runner used by the ledger migrations.
package migrations

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

const usageText = `Usage:
  migrate [-config config.yaml] <command>

Commands:
  init    create the bun migration tables
  up      apply every pending migration (runs init first)
  down    roll back the last migration group
  status  list applied and pending migrations
  unlock  release a lock left behind by an interrupted run
`

// Usage prints command usage and exits with status 2.
func Usage() {
	fmt.Fprint(os.Stderr, usageText)
	flag.PrintDefaults()
	os.Exit(2)
}

// Exitf prints the formatted message followed by usage and exits.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	Usage()
}

// CreateSchema creates a table per model, skipping tables that already exist.
func CreateSchema(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// DropTables drops the table of every model, cascading to dependent objects.
func DropTables(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", model, err)
		}
	}
	return nil
}

// CreateModelIndexes creates one idx_<table>_<column> index per column.
func CreateModelIndexes(ctx context.Context, db bun.IDB, model any, columns ...string) error {
	for _, column := range columns {
		name, err := indexName(db, model, column)
		if err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model(model).Index(name).Column(column).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}
	return nil
}

// DropModelIndexes drops indexes created by CreateModelIndexes.
func DropModelIndexes(ctx context.Context, db bun.IDB, model any, columns ...string) error {
	for _, column := range columns {
		name, err := indexName(db, model, column)
		if err != nil {
			return err
		}
		if _, err := db.NewDropIndex().Model(model).Index(name).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop index %s: %w", name, err)
		}
	}
	return nil
}

func indexName(db bun.IDB, model any, column string) (string, error) {
	if model == nil {
		return "", fmt.Errorf("model cannot be nil")
	}
	table := db.NewCreateIndex().Model(model).GetTableName()
	if table == "" {
		return "", fmt.Errorf("failed to resolve table name for model %T", model)
	}
	return "idx_" + strings.NewReplacer(`"`, "", ".", "_").Replace(table) + "_" + column, nil
}

type command func(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error

var commands = map[string]command{
	"init":   initTables,
	"up":     up,
	"down":   down,
	"status": status,
	"unlock": func(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error {
		if err := m.Unlock(ctx); err != nil {
			return err
		}
		logger.Info("Migration lock released")
		return nil
	},
}

// Commands lists the names RunMigrations accepts.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunMigrations runs the command named by args[0] against migrator.
func RunMigrations(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger, args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided (one of %s)", strings.Join(Commands(), ", "))
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	if migrator == nil {
		return fmt.Errorf("nil migrator")
	}
	return cmd(ctx, migrator, logger)
}

func initTables(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error {
	if err := m.Init(ctx); err != nil {
		return err
	}
	logger.Info("Migration tables ready")
	return nil
}

// withLock runs fn while holding the bun migration lock.
func withLock(ctx context.Context, m *migrate.Migrator, logger *zap.Logger, fn func() error) error {
	if err := m.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		if err := m.Unlock(ctx); err != nil {
			logger.Warn("Failed to release migration lock", zap.Error(err))
		}
	}()
	return fn()
}

func up(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error {
	if err := m.Init(ctx); err != nil {
		return err
	}
	return withLock(ctx, m, logger, func() error {
		group, err := m.Migrate(ctx)
		if err != nil {
			return err
		}
		if group.IsZero() {
			logger.Info("No new migrations to run (database is up to date)")
			return nil
		}
		logger.Info("Migrated", zap.String("group", group.String()))
		return nil
	})
}

func down(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error {
	return withLock(ctx, m, logger, func() error {
		group, err := m.Rollback(ctx)
		if err != nil {
			return err
		}
		if group.IsZero() {
			logger.Info("No migrations to roll back")
			return nil
		}
		logger.Info("Rolled back", zap.String("group", group.String()))
		return nil
	})
}

func status(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error {
	ms, err := m.MigrationsWithStatus(ctx)
	if err != nil {
		return err
	}
	for _, mg := range ms {
		logger.Info("Migration",
			zap.String("name", mg.Name),
			zap.Bool("applied", mg.IsApplied()),
			zap.Int64("group", mg.GroupID),
		)
	}
	logger.Info("Migration status",
		zap.Int("total", len(ms)),
		zap.Int("pending", len(ms.Unapplied())),
		zap.String("last_group", ms.LastGroup().String()),
	)
	return nil
}
