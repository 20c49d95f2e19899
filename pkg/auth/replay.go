package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplayGuard remembers signatures so each one authenticates a single request.
type ReplayGuard interface {
	// Claim marks key as used for ttl. It returns false if key was already used.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// ReplayKey identifies one signed authentication.
func ReplayKey(address, message, signature string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(address) + ":" + message + ":" + strings.ToLower(signature)))
	return hex.EncodeToString(sum[:])
}

// RedisReplayGuard stores used signatures with SETNX and a TTL, so it can be shared between replicas.
type RedisReplayGuard struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisReplayGuard creates a guard storing keys under prefix + "replay:".
func NewRedisReplayGuard(rdb redis.UniversalClient, prefix string) *RedisReplayGuard {
	return &RedisReplayGuard{rdb: rdb, prefix: prefix + "replay:"}
}

// Claim implements ReplayGuard.
func (g *RedisReplayGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, g.prefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// MemoryReplayGuard keeps used signatures in process. Expired entries are treated as
// unused but only removed by Prune, which the owner calls periodically.
type MemoryReplayGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemoryReplayGuard creates an empty in-memory guard.
func NewMemoryReplayGuard() *MemoryReplayGuard {
	return &MemoryReplayGuard{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Claim implements ReplayGuard.
func (g *MemoryReplayGuard) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if exp, ok := g.seen[key]; ok && now.Before(exp) {
		return false, nil
	}
	g.seen[key] = now.Add(ttl)
	return true, nil
}

// Prune drops expired entries and returns how many were removed.
func (g *MemoryReplayGuard) Prune() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	removed := 0
	for k, exp := range g.seen {
		if !now.Before(exp) {
			delete(g.seen, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of remembered entries, expired ones included.
func (g *MemoryReplayGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
