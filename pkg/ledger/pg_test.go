package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/pgutil"
	mghelper "github.com/chainsafe/bridge-claims/pkg/pgutil/migrations"
)

func setupPG(t *testing.T) (context.Context, Repository) {
	t.Helper()

	ctx := context.Background()
	db := pgutil.SetupTestDB(t)

	if err := mghelper.CreateSchema(ctx, db, &TransactionDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return ctx, NewPGRepository(db)
}

func TestPGRepository_CreateAndFind(t *testing.T) {
	ctx, repo := setupPG(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	tx := storedTx("0f6c0ad4-4c2b-4d6b-9a57-2f0d3d1c9a11", sourceHash, now, bridge.StatusPending)
	if err := repo.Create(ctx, tx); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, err := repo.FindBySourceTxHash(ctx, sourceHash)
	if err != nil {
		t.Fatalf("FindBySourceTxHash() failed: %v", err)
	}
	if got.ID != tx.ID || got.Amount != "10500000" || got.Status != bridge.StatusPending {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.ClaimTxHash != "" {
		t.Fatalf("expected empty claim hash, got %q", got.ClaimTxHash)
	}

	tx.Status = bridge.StatusClaimed
	tx.ClaimTxHash = "0xfeed"
	tx.Version = 1
	if err := repo.Update(ctx, tx, 0); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	got, err = repo.FindByID(ctx, tx.ID)
	if err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if got.Status != bridge.StatusClaimed || got.ClaimTxHash != "0xfeed" {
		t.Fatalf("update not persisted: %+v", got)
	}

	if _, err := repo.FindByID(ctx, "3b0d2b0e-0000-4000-8000-000000000000"); !errors.Is(err, bridge.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepository_Duplicate(t *testing.T) {
	ctx, repo := setupPG(t)
	now := time.Now().UTC()

	if err := repo.Create(ctx, storedTx("0f6c0ad4-4c2b-4d6b-9a57-2f0d3d1c9a11", sourceHash, now, bridge.StatusPending)); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	err := repo.Create(ctx, storedTx("9d1f3b7e-1111-4c2b-8a57-2f0d3d1c9a12", sourceHash, now, bridge.StatusPending))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPGRepository_Lists(t *testing.T) {
	ctx, repo := setupPG(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	entries := []*bridge.Transaction{
		storedTx("00000000-0000-4000-8000-000000000001", "0x01", base, bridge.StatusPending),
		storedTx("00000000-0000-4000-8000-000000000002", "0x02", base.Add(time.Minute), bridge.StatusConfirmed),
		storedTx("00000000-0000-4000-8000-000000000003", "0x03", base.Add(2*time.Minute), bridge.StatusPending),
	}
	for _, tx := range entries {
		if err := repo.Create(ctx, tx); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	recent, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != entries[2].ID {
		t.Fatalf("expected newest first, got %v", ids(recent))
	}

	pending, err := repo.ListByStatus(ctx, bridge.StatusPending, 0, 10)
	if err != nil {
		t.Fatalf("ListByStatus() failed: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != entries[0].ID {
		t.Fatalf("expected oldest pending first, got %v", ids(pending))
	}
}

func TestPGRepository_VersionCheck(t *testing.T) {
	_, repo := setupPG(t)
	assertVersionCheck(t, repo, "00000000-0000-4000-8000-00000000000a", "00000000-0000-4000-8000-00000000000b")
}
