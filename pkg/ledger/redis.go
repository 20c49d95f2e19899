package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/chainsafe/bridge-claims/pkg/bridge"
)

// RedisRepository stores entries as JSON documents with sorted-set indexes:
//
//	<prefix>tx:<id>            JSON document
//	<prefix>tx:source:<hash>   id
//	<prefix>tx:recent          zset of ids scored by creation time
//	<prefix>tx:status:<status> zset of ids scored by creation time
type RedisRepository struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisRepository creates a repository on rdb with keys under prefix.
func NewRedisRepository(rdb redis.UniversalClient, prefix string) *RedisRepository {
	return &RedisRepository{rdb: rdb, prefix: prefix}
}

func (r *RedisRepository) txKey(id string) string       { return r.prefix + "tx:" + id }
func (r *RedisRepository) sourceKey(hash string) string { return r.prefix + "tx:source:" + hash }
func (r *RedisRepository) recentKey() string            { return r.prefix + "tx:recent" }

func (r *RedisRepository) statusKey(s bridge.Status) string {
	return r.prefix + "tx:status:" + string(s)
}

func (r *RedisRepository) Create(ctx context.Context, tx *bridge.Transaction) error {
	hash := NormalizeHash(tx.SourceTxHash)
	data, err := encode(tx, hash)
	if err != nil {
		return err
	}

	err = r.rdb.Watch(ctx, func(rtx *redis.Tx) error {
		n, err := rtx.Exists(ctx, r.sourceKey(hash), r.txKey(tx.ID)).Result()
		if err != nil {
			return fmt.Errorf("failed to check transaction: %w", err)
		}
		if n > 0 {
			return ErrDuplicate
		}

		score := float64(tx.CreatedAt.UnixNano())
		_, err = rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.txKey(tx.ID), data, 0)
			pipe.Set(ctx, r.sourceKey(hash), tx.ID, 0)
			pipe.ZAdd(ctx, r.recentKey(), redis.Z{Score: score, Member: tx.ID})
			pipe.ZAdd(ctx, r.statusKey(tx.Status), redis.Z{Score: score, Member: tx.ID})
			return nil
		})
		return err
	}, r.sourceKey(hash), r.txKey(tx.ID))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		// Another writer created one of the keys between WATCH and EXEC.
		return ErrDuplicate
	case errors.Is(err, ErrDuplicate):
		return err
	}
	return fmt.Errorf("failed to create transaction: %w", err)
}

func (r *RedisRepository) Update(ctx context.Context, tx *bridge.Transaction, expected uint64) error {
	key := r.txKey(tx.ID)

	err := r.rdb.Watch(ctx, func(rtx *redis.Tx) error {
		raw, err := rtx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return notFound(tx.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to get transaction: %w", err)
		}
		prev, err := decode(raw)
		if err != nil {
			return err
		}
		if prev.Version != expected {
			return ErrStaleEntry
		}

		data, err := encode(tx, NormalizeHash(prev.SourceTxHash))
		if err != nil {
			return err
		}
		score := float64(prev.CreatedAt.UnixNano())
		_, err = rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if prev.Status != tx.Status {
				pipe.ZRem(ctx, r.statusKey(prev.Status), tx.ID)
			}
			pipe.ZAdd(ctx, r.statusKey(tx.Status), redis.Z{Score: score, Member: tx.ID})
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return ErrStaleEntry
	case errors.Is(err, ErrStaleEntry), IsNotFound(err):
		return err
	}
	return fmt.Errorf("failed to update transaction: %w", err)
}

func encode(tx *bridge.Transaction, hash string) ([]byte, error) {
	doc := tx.Clone()
	doc.SourceTxHash = hash
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return data, nil
}

func (r *RedisRepository) FindByID(ctx context.Context, id string) (*bridge.Transaction, error) {
	data, err := r.rdb.Get(ctx, r.txKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return decode(data)
}

func (r *RedisRepository) FindBySourceTxHash(ctx context.Context, hash string) (*bridge.Transaction, error) {
	id, err := r.rdb.Get(ctx, r.sourceKey(NormalizeHash(hash))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(hash)
		}
		return nil, fmt.Errorf("failed to read source index: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *RedisRepository) ListRecent(ctx context.Context, limit int) ([]*bridge.Transaction, error) {
	end := int64(-1)
	if limit > 0 {
		end = int64(limit - 1)
	}
	ids, err := r.rdb.ZRevRange(ctx, r.recentKey(), 0, end).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return r.load(ctx, ids)
}

func (r *RedisRepository) ListByStatus(ctx context.Context, status bridge.Status, offset, limit int) ([]*bridge.Transaction, error) {
	if offset < 0 {
		offset = 0
	}
	end := int64(-1)
	if limit > 0 {
		end = int64(offset + limit - 1)
	}
	ids, err := r.rdb.ZRange(ctx, r.statusKey(status), int64(offset), end).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s transactions: %w", status, err)
	}
	return r.load(ctx, ids)
}

func (r *RedisRepository) load(ctx context.Context, ids []string) ([]*bridge.Transaction, error) {
	if len(ids) == 0 {
		return []*bridge.Transaction{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.txKey(id)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	out := make([]*bridge.Transaction, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		tx, err := decode([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func decode(data []byte) (*bridge.Transaction, error) {
	var tx bridge.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return &tx, nil
}
