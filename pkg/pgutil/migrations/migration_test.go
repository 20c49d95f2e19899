package migrations

import (
	"context"
	"testing"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/pkg/pgutil"
)

type sampleDao struct {
	bun.BaseModel `bun:"table:sample_rows"`
	ID            int64  `bun:",pk,autoincrement"`
	Label         string `bun:",notnull,type:varchar(100)"`
	Weight        int    `bun:",nullzero"`
}

func TestRunMigrations_RejectsBadCommands(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	if err := RunMigrations(ctx, nil, logger); err == nil {
		t.Fatal("expected error without a command")
	}
	if err := RunMigrations(ctx, nil, logger, "sideways"); err == nil {
		t.Fatal("expected error for unknown command")
	}
	if err := RunMigrations(ctx, nil, logger, "up"); err == nil {
		t.Fatal("expected error for nil migrator")
	}

	want := []string{"down", "init", "status", "unlock", "up"}
	got := Commands()
	if len(got) != len(want) {
		t.Fatalf("expected commands %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected commands %v, got %v", want, got)
		}
	}
}

func TestSchemaHelpers(t *testing.T) {
	db := pgutil.SetupTestDB(t)
	ctx := context.Background()

	t.Run("create schema is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if err := CreateSchema(ctx, db, &sampleDao{}); err != nil {
				t.Fatalf("CreateSchema() call %d failed: %v", i+1, err)
			}
		}
		pgutil.AssertTableExists(t, db, "sample_rows")
	})

	t.Run("model indexes", func(t *testing.T) {
		if err := CreateModelIndexes(ctx, db, &sampleDao{}, "label", "weight"); err != nil {
			t.Fatalf("CreateModelIndexes() failed: %v", err)
		}
		pgutil.AssertIndexExists(t, db, "idx_sample_rows_label")
		pgutil.AssertIndexExists(t, db, "idx_sample_rows_weight")

		if err := DropModelIndexes(ctx, db, &sampleDao{}, "label", "weight"); err != nil {
			t.Fatalf("DropModelIndexes() failed: %v", err)
		}
		var exists bool
		query := `SELECT EXISTS (SELECT FROM pg_indexes WHERE schemaname = 'public' AND indexname = ?)`
		if err := db.NewRaw(query, "idx_sample_rows_label").Scan(ctx, &exists); err != nil {
			t.Fatalf("failed to check index: %v", err)
		}
		if exists {
			t.Error("idx_sample_rows_label should be dropped")
		}
	})

	t.Run("drop tables is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if err := DropTables(ctx, db, &sampleDao{}); err != nil {
				t.Fatalf("DropTables() call %d failed: %v", i+1, err)
			}
		}
		pgutil.AssertTableNotExists(t, db, "sample_rows")
	})
}
