package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
)

type pgStore struct {
	db *bun.DB
}

// NewPGRepository creates a postgres implementation of the ledger repository
func NewPGRepository(db *bun.DB) Repository {
	return &pgStore{db: db}
}

func (s *pgStore) Create(ctx context.Context, tx *bridge.Transaction) error {
	if _, err := s.db.NewInsert().Model(toTransactionDao(tx)).Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (s *pgStore) Update(ctx context.Context, tx *bridge.Transaction, expected uint64) error {
	dao := toTransactionDao(tx)

	res, err := s.db.NewUpdate().
		Model(dao).
		Column(
			"destination_chain_id",
			"destination_token",
			"status",
			"block_number",
			"confirmed_blocks",
			"destination_address",
			"claim_tx_hash",
			"failure_reason",
			"updated_at",
			"version",
		).
		Where("id = ?", dao.ID).
		Where("version = ?", int64(expected)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n == 0 {
		if _, err := s.FindByID(ctx, dao.ID); err != nil {
			return err
		}
		return ErrStaleEntry
	}
	return nil
}

func (s *pgStore) FindByID(ctx context.Context, id string) (*bridge.Transaction, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *pgStore) FindBySourceTxHash(ctx context.Context, hash string) (*bridge.Transaction, error) {
	return s.findOne(ctx, "source_tx_hash = ?", NormalizeHash(hash))
}

func (s *pgStore) findOne(ctx context.Context, where string, arg string) (*bridge.Transaction, error) {
	dao := new(TransactionDao)
	err := s.db.NewSelect().
		Model(dao).
		Where(where, arg).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(arg)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return toTransaction(dao), nil
}

func (s *pgStore) ListRecent(ctx context.Context, limit int) ([]*bridge.Transaction, error) {
	var daos []TransactionDao
	q := s.db.NewSelect().
		Model(&daos).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return toTransactions(daos), nil
}

func (s *pgStore) ListByStatus(ctx context.Context, status bridge.Status, offset, limit int) ([]*bridge.Transaction, error) {
	var daos []TransactionDao
	q := s.db.NewSelect().
		Model(&daos).
		Where("status = ?", string(status)).
		Order("created_at ASC", "id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list %s transactions: %w", status, err)
	}
	return toTransactions(daos), nil
}

func toTransactions(daos []TransactionDao) []*bridge.Transaction {
	out := make([]*bridge.Transaction, len(daos))
	for i := range daos {
		out[i] = toTransaction(&daos[i])
	}
	return out
}
