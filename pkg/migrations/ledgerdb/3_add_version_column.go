package ledgerdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Tables created before versioned updates lack the column.
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx,
			`ALTER TABLE bridge_transactions ADD COLUMN IF NOT EXISTS version BIGINT NOT NULL DEFAULT 0`)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `ALTER TABLE bridge_transactions DROP COLUMN IF EXISTS version`)
		return err
	})
}
