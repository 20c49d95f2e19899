// Package ledger tracks bridge transactions from deposit to claim.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/config"
)

// ErrDuplicate is returned when a source transaction hash is already recorded under another id.
var ErrDuplicate = fmt.Errorf("%w: source transaction already recorded", bridge.ErrInvalidRequest)

// ErrStaleEntry is returned when an entry changed after it was read.
var ErrStaleEntry = errors.New("ledger entry was modified concurrently")

// Repository persists ledger entries. Implementations return bridge.ErrNotFound
// for missing entries and ErrDuplicate when an id or source hash is reused.
//
// Several processes may share one repository, so Update is a compare-and-swap
// on Version rather than a blind overwrite.
type Repository interface {
	// Create inserts a new entry.
	Create(ctx context.Context, tx *bridge.Transaction) error
	// Update replaces the entry with tx.ID if its stored version is still
	// expected, and returns ErrStaleEntry otherwise. tx.Version is stored as given.
	Update(ctx context.Context, tx *bridge.Transaction, expected uint64) error
	FindByID(ctx context.Context, id string) (*bridge.Transaction, error)
	FindBySourceTxHash(ctx context.Context, hash string) (*bridge.Transaction, error)
	// ListRecent returns up to limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]*bridge.Transaction, error)
	// ListByStatus returns up to limit entries in status, oldest first, skipping
	// the first offset of them.
	ListByStatus(ctx context.Context, status bridge.Status, offset, limit int) ([]*bridge.Transaction, error)
}

// NormalizeHash lowercases a 0x transaction hash so lookups are case-insensitive.
func NormalizeHash(hash string) string {
	hash = strings.ToLower(strings.TrimSpace(hash))
	if hash != "" && !strings.HasPrefix(hash, "0x") {
		hash = "0x" + hash
	}
	return hash
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", bridge.ErrNotFound, key)
}

// IsNotFound reports whether err means the entry does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, bridge.ErrNotFound)
}

// NewRepository selects the repository for backend. db is required for postgres and rdb for redis.
func NewRepository(backend string, db *bun.DB, rdb redis.UniversalClient, prefix string) (Repository, error) {
	switch backend {
	case "", config.LedgerBackendMemory:
		return NewMemoryRepository(), nil
	case config.LedgerBackendPostgres:
		if db == nil {
			return nil, errors.New("postgres ledger requires a database connection")
		}
		return NewPGRepository(db), nil
	case config.LedgerBackendRedis:
		if rdb == nil {
			return nil, errors.New("redis ledger requires a redis client")
		}
		return NewRedisRepository(rdb, prefix), nil
	}
	return nil, fmt.Errorf("unknown ledger backend %q", backend)
}
