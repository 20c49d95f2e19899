package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/internal/metrics"
	"github.com/chainsafe/bridge-claims/pkg/bridge"
)

// DefaultListWindow bounds ListRecent when no window is configured.
const DefaultListWindow = 50

// maxUpdateAttempts bounds how often Update re-reads an entry another process changed.
const maxUpdateAttempts = 5

// Confirmations decides when a source chain deposit is final.
type Confirmations interface {
	IsConfirmed(chainID, confirmedBlocks uint64) bool
}

// Patch lists the fields an update changes. Nil fields are left as they are.
type Patch struct {
	Status             *bridge.Status
	BlockNumber        *uint64
	ConfirmedBlocks    *uint64
	DestinationChainID *uint64
	ClaimTxHash        *string
	FailureReason      *string
}

// Ledger records bridge transactions and enforces their status lifecycle.
// Updates to the same entry are serialized in process by a keyed lock and
// across processes by the repository's version check.
type Ledger struct {
	repo      Repository
	confirms  Confirmations
	publisher Publisher
	window    int
	locks     *keyedMutex
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a ledger over repo. A nil publisher discards events.
func New(repo Repository, confirms Confirmations, publisher Publisher, window int, logger *zap.Logger) *Ledger {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if window <= 0 {
		window = DefaultListWindow
	}
	return &Ledger{
		repo:      repo,
		confirms:  confirms,
		publisher: publisher,
		window:    window,
		locks:     newKeyedMutex(),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With(zap.String("component", "ledger")),
	}
}

// Record stores a new entry. An empty ID is generated and an empty status defaults to pending.
func (l *Ledger) Record(ctx context.Context, tx *bridge.Transaction) (*bridge.Transaction, error) {
	if tx.SourceTxHash == "" || tx.SourceChainID == 0 || tx.Amount == "" || tx.Receiver == "" {
		return nil, fmt.Errorf("%w: source hash, source chain, amount and receiver are required", bridge.ErrInvalidRequest)
	}

	entry := tx.Clone()
	entry.SourceTxHash = NormalizeHash(entry.SourceTxHash)
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = bridge.StatusPending
	}
	if !entry.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", bridge.ErrInvalidRequest, entry.Status)
	}

	unlock := l.locks.Lock("source:" + entry.SourceTxHash)
	defer unlock()

	if _, err := l.repo.FindBySourceTxHash(ctx, entry.SourceTxHash); err == nil {
		return nil, ErrDuplicate
	} else if !IsNotFound(err) {
		return nil, err
	}

	now := l.now()
	entry.CreatedAt, entry.UpdatedAt = now, now
	entry.Version = 1
	l.promote(entry)

	if err := l.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	metrics.LedgerTransitions.WithLabelValues(string(entry.Status)).Inc()
	l.logger.Info("Recorded transaction",
		zap.String("id", entry.ID),
		zap.String("source_tx_hash", entry.SourceTxHash),
		zap.Uint64("source_chain_id", entry.SourceChainID),
		zap.Uint64("destination_chain_id", entry.DestinationChainID),
		zap.String("status", string(entry.Status)))
	l.publish(ctx, EventRecorded, entry)
	return entry.Clone(), nil
}

// Update applies patch to the entry with id. When another process changed
// the entry in the meantime, the patch is re-applied to the fresh copy.
func (l *Ledger) Update(ctx context.Context, id string, patch Patch) (*bridge.Transaction, error) {
	unlock := l.locks.Lock("id:" + id)
	defer unlock()

	for attempt := 1; ; attempt++ {
		entry, from, err := l.apply(ctx, id, patch)
		if err != nil {
			return nil, err
		}

		err = l.repo.Update(ctx, entry, entry.Version-1)
		if errors.Is(err, ErrStaleEntry) && attempt < maxUpdateAttempts {
			l.logger.Debug("Ledger entry changed concurrently, retrying",
				zap.String("id", id),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		if entry.Status != from {
			metrics.LedgerTransitions.WithLabelValues(string(entry.Status)).Inc()
			l.logger.Info("Transaction status changed",
				zap.String("id", entry.ID),
				zap.String("source_tx_hash", entry.SourceTxHash),
				zap.String("from", string(from)),
				zap.String("to", string(entry.Status)),
				zap.Uint64("confirmed_blocks", entry.ConfirmedBlocks))
		}
		l.publish(ctx, EventUpdated, entry)
		return entry.Clone(), nil
	}
}

// apply reads the current entry and returns it with patch applied and its
// version bumped, along with the status it had before.
func (l *Ledger) apply(ctx context.Context, id string, patch Patch) (*bridge.Transaction, bridge.Status, error) {
	entry, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	from := entry.Status

	if patch.BlockNumber != nil && *patch.BlockNumber != 0 {
		entry.BlockNumber = *patch.BlockNumber
	}
	if patch.ConfirmedBlocks != nil && *patch.ConfirmedBlocks > entry.ConfirmedBlocks {
		entry.ConfirmedBlocks = *patch.ConfirmedBlocks
	}
	if patch.DestinationChainID != nil && *patch.DestinationChainID != 0 {
		if entry.DestinationChainID != 0 && entry.DestinationChainID != *patch.DestinationChainID {
			return nil, "", fmt.Errorf("%w: entry is bound to destination chain %d, not %d",
				bridge.ErrInvalidRequest, entry.DestinationChainID, *patch.DestinationChainID)
		}
		entry.DestinationChainID = *patch.DestinationChainID
	}
	if patch.ClaimTxHash != nil {
		entry.ClaimTxHash = *patch.ClaimTxHash
	}
	if patch.FailureReason != nil {
		entry.FailureReason = *patch.FailureReason
	}

	if patch.Status != nil {
		to := *patch.Status
		if !to.Valid() {
			return nil, "", fmt.Errorf("%w: unknown status %q", bridge.ErrInvalidRequest, to)
		}
		if !bridge.CanTransition(from, to) {
			return nil, "", fmt.Errorf("%w: %s -> %s", bridge.ErrInvalidTransition, from, to)
		}
		if to == bridge.StatusConfirmed && from != to && !l.confirms.IsConfirmed(entry.SourceChainID, entry.ConfirmedBlocks) {
			return nil, "", fmt.Errorf("%w: %d confirmations are not final on chain %d",
				bridge.ErrInvalidTransition, entry.ConfirmedBlocks, entry.SourceChainID)
		}
		entry.Status = to
	}
	l.promote(entry)
	entry.UpdatedAt = l.now()
	entry.Version++
	return entry, from, nil
}

// promote moves a pending entry to confirmed once its confirmations are final.
func (l *Ledger) promote(tx *bridge.Transaction) {
	if tx.Status == bridge.StatusPending && l.confirms.IsConfirmed(tx.SourceChainID, tx.ConfirmedBlocks) {
		tx.Status = bridge.StatusConfirmed
	}
}

func (l *Ledger) publish(ctx context.Context, typ string, tx *bridge.Transaction) {
	ev := Event{Type: typ, Transaction: tx.Clone(), Timestamp: l.now()}
	if err := l.publisher.Publish(ctx, ev); err != nil {
		metrics.ErrorsTotal.WithLabelValues("ledger", "publish").Inc()
		l.logger.Warn("Failed to publish ledger event",
			zap.String("type", typ),
			zap.String("id", tx.ID),
			zap.Error(err))
	}
}

// Get returns the entry with id.
func (l *Ledger) Get(ctx context.Context, id string) (*bridge.Transaction, error) {
	return l.repo.FindByID(ctx, id)
}

// FindBySourceTxHash returns the entry recorded for a source chain transaction.
func (l *Ledger) FindBySourceTxHash(ctx context.Context, hash string) (*bridge.Transaction, error) {
	return l.repo.FindBySourceTxHash(ctx, hash)
}

// MarkClaimed moves the entry for sourceTxHash to claimed.
func (l *Ledger) MarkClaimed(ctx context.Context, sourceTxHash, claimTxHash string, destinationChainID uint64) (*bridge.Transaction, error) {
	entry, err := l.repo.FindBySourceTxHash(ctx, sourceTxHash)
	if err != nil {
		return nil, err
	}
	status := bridge.StatusClaimed
	return l.Update(ctx, entry.ID, Patch{
		Status:             &status,
		ClaimTxHash:        &claimTxHash,
		DestinationChainID: &destinationChainID,
	})
}

// MarkFailed moves a non-terminal entry to failed with reason.
func (l *Ledger) MarkFailed(ctx context.Context, id, reason string) (*bridge.Transaction, error) {
	status := bridge.StatusFailed
	return l.Update(ctx, id, Patch{Status: &status, FailureReason: &reason})
}

// ListRecent returns the newest entries. Limits outside (0, window] are clamped to the window.
func (l *Ledger) ListRecent(ctx context.Context, limit int) ([]*bridge.Transaction, error) {
	if limit <= 0 || limit > l.window {
		limit = l.window
	}
	return l.repo.ListRecent(ctx, limit)
}

// Pending returns up to limit entries still awaiting confirmation, oldest first,
// after skipping offset of them.
func (l *Ledger) Pending(ctx context.Context, offset, limit int) ([]*bridge.Transaction, error) {
	if offset < 0 {
		offset = 0
	}
	return l.repo.ListByStatus(ctx, bridge.StatusPending, offset, limit)
}
