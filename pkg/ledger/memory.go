package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
)

// MemoryRepository keeps entries in process memory. Entries are lost on restart.
type MemoryRepository struct {
	mu       sync.RWMutex
	byID     map[string]*bridge.Transaction
	bySource map[string]string
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:     make(map[string]*bridge.Transaction),
		bySource: make(map[string]string),
	}
}

func (m *MemoryRepository) Create(_ context.Context, tx *bridge.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := NormalizeHash(tx.SourceTxHash)
	if _, ok := m.bySource[hash]; ok {
		return ErrDuplicate
	}
	if _, ok := m.byID[tx.ID]; ok {
		return ErrDuplicate
	}
	m.byID[tx.ID] = tx.Clone()
	m.bySource[hash] = tx.ID
	return nil
}

func (m *MemoryRepository) Update(_ context.Context, tx *bridge.Transaction, expected uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.byID[tx.ID]
	if !ok {
		return notFound(tx.ID)
	}
	if prev.Version != expected {
		return ErrStaleEntry
	}
	hash := NormalizeHash(tx.SourceTxHash)
	if id, ok := m.bySource[hash]; ok && id != tx.ID {
		return ErrDuplicate
	}
	delete(m.bySource, NormalizeHash(prev.SourceTxHash))
	m.byID[tx.ID] = tx.Clone()
	m.bySource[hash] = tx.ID
	return nil
}

func (m *MemoryRepository) FindByID(_ context.Context, id string) (*bridge.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.byID[id]
	if !ok {
		return nil, notFound(id)
	}
	return tx.Clone(), nil
}

func (m *MemoryRepository) FindBySourceTxHash(_ context.Context, hash string) (*bridge.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySource[NormalizeHash(hash)]
	if !ok {
		return nil, notFound(hash)
	}
	return m.byID[id].Clone(), nil
}

func (m *MemoryRepository) ListRecent(_ context.Context, limit int) ([]*bridge.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.snapshot(func(*bridge.Transaction) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (m *MemoryRepository) ListByStatus(_ context.Context, status bridge.Status, offset, limit int) ([]*bridge.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.snapshot(func(tx *bridge.Transaction) bool { return tx.Status == status })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if offset >= len(out) {
		return []*bridge.Transaction{}, nil
	}
	if offset > 0 {
		out = out[offset:]
	}
	return truncate(out, limit), nil
}

func (m *MemoryRepository) snapshot(keep func(*bridge.Transaction) bool) []*bridge.Transaction {
	out := make([]*bridge.Transaction, 0, len(m.byID))
	for _, tx := range m.byID {
		if keep(tx) {
			out = append(out, tx.Clone())
		}
	}
	return out
}

func truncate(txs []*bridge.Transaction, limit int) []*bridge.Transaction {
	if limit > 0 && len(txs) > limit {
		return txs[:limit]
	}
	return txs
}
