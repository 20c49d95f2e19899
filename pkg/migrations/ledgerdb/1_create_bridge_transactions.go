package ledgerdb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/chainsafe/bridge-claims/pkg/ledger"
	mghelper "github.com/chainsafe/bridge-claims/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := mghelper.CreateSchema(ctx, tx, &ledger.TransactionDao{}); err != nil {
				return err
			}
			return mghelper.CreateModelIndexes(ctx, tx, &ledger.TransactionDao{}, "status", "created_at")
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return mghelper.DropTables(ctx, tx, &ledger.TransactionDao{})
		})
	})
}
