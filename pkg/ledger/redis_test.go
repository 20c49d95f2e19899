package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
)

func setupRedis(t *testing.T) *RedisRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisRepository(rdb, "test:")
}

func storedTx(id, hash string, created time.Time, s bridge.Status) *bridge.Transaction {
	tx := newDeposit(hash)
	tx.ID = id
	tx.Status = s
	tx.CreatedAt = created
	tx.UpdatedAt = created
	return tx
}

func TestRedisRepository_CreateAndFind(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := repo.Create(ctx, storedTx("a", sourceHash, now, bridge.StatusPending)); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, err := repo.FindByID(ctx, "a")
	if err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if got.Amount != "10500000" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected entry: %+v", got)
	}

	got, err = repo.FindBySourceTxHash(ctx, sourceHash)
	if err != nil {
		t.Fatalf("FindBySourceTxHash() failed: %v", err)
	}
	if got.ID != "a" {
		t.Fatalf("expected a, got %s", got.ID)
	}

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, bridge.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindBySourceTxHash(ctx, "0xmissing"); !errors.Is(err, bridge.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisRepository_Duplicate(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := repo.Create(ctx, storedTx("a", sourceHash, now, bridge.StatusPending)); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := repo.Create(ctx, storedTx("b", sourceHash, now, bridge.StatusPending)); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRedisRepository_StatusIndex(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		tx := storedTx(id, "0x0"+id, base.Add(time.Duration(i)*time.Minute), bridge.StatusPending)
		if err := repo.Create(ctx, tx); err != nil {
			t.Fatalf("Create(%s) failed: %v", id, err)
		}
	}

	claimed := storedTx("b", "0x0b", base.Add(time.Minute), bridge.StatusClaimed)
	claimed.Version = 1
	if err := repo.Update(ctx, claimed, 0); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	pending, err := repo.ListByStatus(ctx, bridge.StatusPending, 0, 10)
	if err != nil {
		t.Fatalf("ListByStatus() failed: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "a" || pending[1].ID != "c" {
		t.Fatalf("expected [a c] oldest first, got %v", ids(pending))
	}

	done, err := repo.ListByStatus(ctx, bridge.StatusClaimed, 0, 10)
	if err != nil {
		t.Fatalf("ListByStatus() failed: %v", err)
	}
	if len(done) != 1 || done[0].ID != "b" {
		t.Fatalf("expected [b], got %v", ids(done))
	}

	recent, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "c" || recent[1].ID != "b" {
		t.Fatalf("expected [c b] newest first, got %v", ids(recent))
	}
}

func TestRedisRepository_VersionCheck(t *testing.T) {
	assertVersionCheck(t, setupRedis(t), "a", "b")
}

func TestRedisRepository_WithLedger(t *testing.T) {
	l := newTestLedger(t, nil)
	l.repo = setupRedis(t)
	ctx := context.Background()

	tx, err := l.Record(ctx, newDeposit(sourceHash))
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if _, err := l.Update(ctx, tx.ID, Patch{ConfirmedBlocks: u64(12)}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	pending, err := l.Pending(ctx, 0, 10)
	if err != nil {
		t.Fatalf("Pending() failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("confirmed entry still indexed as pending: %v", ids(pending))
	}
}

func ids(txs []*bridge.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func TestNewRepository_Backends(t *testing.T) {
	repo, err := NewRepository("memory", nil, nil, "")
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if _, ok := repo.(*MemoryRepository); !ok {
		t.Fatalf("expected *MemoryRepository, got %T", repo)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo, err = NewRepository("redis", nil, rdb, "x:")
	if err != nil {
		t.Fatalf("redis backend: %v", err)
	}
	if _, ok := repo.(*RedisRepository); !ok {
		t.Fatalf("expected *RedisRepository, got %T", repo)
	}

	if _, err := NewRepository("redis", nil, nil, ""); err == nil {
		t.Fatalf("expected an error without a redis client")
	}
	if _, err := NewRepository("postgres", nil, nil, ""); err == nil {
		t.Fatalf("expected an error without a database")
	}
	if _, err := NewRepository("etcd", nil, nil, ""); err == nil {
		t.Fatalf("expected an error for an unknown backend")
	}
}
