// Package cache stores computed dashboard summaries in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/grievance-service/internal/aggregate"
)

// SummaryCache keeps a single serialized summary under a fixed key, guarded by a
// generation counter that every invalidation bumps.
type SummaryCache struct {
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

// NewSummaryCache returns nil when client is nil or ttl is not positive, which callers
// treat as caching disabled.
func NewSummaryCache(client *redis.Client, key string, ttl time.Duration) *SummaryCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &SummaryCache{client: client, key: key, genKey: key + ":gen", ttl: ttl}
}

// Get returns the cached summary. The boolean is false on a miss.
func (c *SummaryCache) Get(ctx context.Context) (*aggregate.Summary, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read summary cache: %w", err)
	}
	var summary aggregate.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false, fmt.Errorf("decode cached summary: %w", err)
	}
	return &summary, true, nil
}

// Generation returns the current invalidation generation. A summary computed after
// reading it may only be stored while the generation is unchanged.
func (c *SummaryCache) Generation(ctx context.Context) (int64, error) {
	gen, err := readGeneration(ctx, c.client, c.genKey)
	if err != nil {
		return 0, fmt.Errorf("read summary generation: %w", err)
	}
	return gen, nil
}

// SetIfCurrent stores summary with the configured TTL unless an invalidation happened
// since generation was read. It reports whether the summary was stored.
func (c *SummaryCache) SetIfCurrent(ctx context.Context, summary aggregate.Summary, generation int64) (bool, error) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return false, fmt.Errorf("encode summary: %w", err)
	}
	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, c.genKey)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, raw, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, c.genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("write summary cache: %w", err)
	}
	return stored, nil
}

// Invalidate drops the cached summary and bumps the generation.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, r getter, key string) (int64, error) {
	gen, err := r.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
