// Package watcher advances ledger confirmations from source chain heads.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/bridge-claims/internal/metrics"
	"github.com/chainsafe/bridge-claims/pkg/bridge"
	"github.com/chainsafe/bridge-claims/pkg/ledger"
)

const (
	defaultInterval  = 15 * time.Second
	defaultBatchSize = 200
)

// Ledger is the part of the transaction ledger the watcher drives.
type Ledger interface {
	Pending(ctx context.Context, offset, limit int) ([]*bridge.Transaction, error)
	Update(ctx context.Context, id string, patch ledger.Patch) (*bridge.Transaction, error)
}

// BlockSource reports the head of one chain.
type BlockSource interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

// Engine periodically recomputes confirmations of pending ledger entries.
type Engine struct {
	ledger    Ledger
	chains    map[uint64]BlockSource
	interval  time.Duration
	batchSize int
	logger    *zap.Logger

	mu        sync.RWMutex
	ready     bool
	lastBlock map[uint64]uint64

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewEngine creates a watcher over the source chains keyed by chain id.
func NewEngine(l Ledger, chains map[uint64]BlockSource, interval time.Duration, batchSize int, logger *zap.Logger) *Engine {
	if interval <= 0 {
		interval = defaultInterval
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Engine{
		ledger:    l,
		chains:    chains,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger.With(zap.String("component", "watcher")),
		lastBlock: make(map[uint64]uint64),
		stopCh:    make(chan struct{}),
	}
}

// Start runs the watch loop until ctx is done or Stop is called.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting confirmation watcher",
		zap.Duration("interval", e.interval),
		zap.Int("chains", len(e.chains)))

	e.wg.Add(1)
	go e.run(ctx)
}

// Stop stops the watch loop and waits for the current pass to finish.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.logger.Info("Stopping confirmation watcher")
		close(e.stopCh)
	})
	e.wg.Wait()
}

// IsReady reports whether at least one pass completed.
func (e *Engine) IsReady() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// LastBlock returns the latest head read from chainID.
func (e *Engine) LastBlock(chainID uint64) (uint64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.lastBlock[chainID]
	return b, ok
}

func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		if err := e.check(ctx); err != nil && ctx.Err() == nil {
			metrics.ErrorsTotal.WithLabelValues("watcher", "check").Inc()
			e.logger.Error("Confirmation check failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case <-ticker.C:
		}
	}
}

// check runs one pass over every pending entry, batchSize entries at a time.
// Entries on chains without a client or with an unreadable head are passed
// over, so they never hold back newer entries.
func (e *Engine) check(ctx context.Context) error {
	heads := make(map[uint64]uint64)
	failed := make(map[uint64]bool)
	total := 0

	for offset := 0; ; {
		page, err := e.ledger.Pending(ctx, offset, e.batchSize)
		if err != nil {
			return fmt.Errorf("failed to list pending transactions: %w", err)
		}
		total += len(page)

		left := 0
		for _, tx := range page {
			stillPending, err := e.advance(ctx, heads, failed, tx)
			if err != nil {
				return err
			}
			if stillPending {
				left++
			}
		}

		if len(page) < e.batchSize {
			break
		}
		// Promoted entries drop out of the pending list and shift the rest forward.
		offset += left
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	metrics.PendingTransactions.Set(float64(total))

	e.mu.Lock()
	e.ready = true
	e.mu.Unlock()
	return nil
}

// advance recomputes the confirmations of one entry and reports whether it is still pending.
func (e *Engine) advance(ctx context.Context, heads map[uint64]uint64, failed map[uint64]bool, tx *bridge.Transaction) (bool, error) {
	if tx.BlockNumber == 0 || failed[tx.SourceChainID] {
		return true, nil
	}
	head, ok, err := e.head(ctx, heads, tx.SourceChainID)
	if err != nil {
		failed[tx.SourceChainID] = true
		e.logger.Warn("Failed to read chain head",
			zap.Uint64("chain_id", tx.SourceChainID),
			zap.Error(err))
		return true, nil
	}
	if !ok || head < tx.BlockNumber {
		return true, nil
	}

	confirmed := head - tx.BlockNumber
	if confirmed <= tx.ConfirmedBlocks {
		return true, nil
	}
	updated, err := e.ledger.Update(ctx, tx.ID, ledger.Patch{ConfirmedBlocks: &confirmed})
	if err != nil {
		if errors.Is(err, bridge.ErrInvalidTransition) || errors.Is(err, bridge.ErrNotFound) {
			// Claimed or failed since it was listed.
			return false, nil
		}
		return false, fmt.Errorf("failed to update %s: %w", tx.ID, err)
	}
	return updated.Status == bridge.StatusPending, nil
}

// head reads each chain once per pass. Chains without a client report ok=false.
func (e *Engine) head(ctx context.Context, cache map[uint64]uint64, chainID uint64) (uint64, bool, error) {
	if b, ok := cache[chainID]; ok {
		return b, true, nil
	}
	src, ok := e.chains[chainID]
	if !ok {
		return 0, false, nil
	}
	b, err := src.LatestBlockNumber(ctx)
	if err != nil {
		return 0, false, err
	}
	cache[chainID] = b

	e.mu.Lock()
	e.lastBlock[chainID] = b
	e.mu.Unlock()
	metrics.LastCheckedBlock.WithLabelValues(fmt.Sprint(chainID)).Set(float64(b))
	return b, true, nil
}
