package ledgerdb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/chainsafe/bridge-claims/pkg/ledger"
	mghelper "github.com/chainsafe/bridge-claims/pkg/pgutil/migrations"
)

// The watcher scans pending entries per source chain.
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return mghelper.CreateModelIndexes(ctx, db, &ledger.TransactionDao{}, "source_chain_id")
	}, func(ctx context.Context, db *bun.DB) error {
		return mghelper.DropModelIndexes(ctx, db, &ledger.TransactionDao{}, "source_chain_id")
	})
}
