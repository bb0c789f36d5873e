package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"
)

// generationKey is the shared counter every cache key is versioned by.
// Bumping it on a ledger write invalidates every cached result at once
// without scanning for keys.
const generationKey = "analytics:generation"

// QueryCache caches computed analytics results keyed by operation and
// parameters. Results are versioned by the ledger generation counter, so a
// posted booking makes every prior entry unreachable rather than deleted.
type QueryCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewQueryCache creates a new query cache. A nil redis client disables
// caching entirely; every lookup misses and every store is a no-op.
func NewQueryCache(redis *RedisClient, ttl time.Duration) *QueryCache {
	return &QueryCache{
		redis: redis,
		ttl:   ttl,
	}
}

// Get retrieves a cached result for the operation and parameters.
// Returns true and unmarshals into dest on a hit; false otherwise.
func (c *QueryCache) Get(ctx context.Context, operation string, params interface{}, dest interface{}) bool {
	if c == nil || c.redis == nil {
		return false
	}
	key, err := c.cacheKey(ctx, operation, params)
	if err != nil {
		return false
	}
	return c.redis.Get(ctx, key, dest) == nil
}

// Set caches a computed result for the operation and parameters.
func (c *QueryCache) Set(ctx context.Context, operation string, params interface{}, result interface{}) error {
	if c == nil || c.redis == nil {
		return nil
	}
	key, err := c.cacheKey(ctx, operation, params)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, result, c.ttl)
}

// Invalidate bumps the generation counter, orphaning every cached result.
// Orphaned entries expire through their TTL.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	if c == nil || c.redis == nil {
		return nil
	}
	_, err := c.redis.Incr(ctx, generationKey)
	return err
}

// cacheKey builds the generation-versioned key for one cached computation.
func (c *QueryCache) cacheKey(ctx context.Context, operation string, params interface{}) (string, error) {
	generation, err := c.redis.GetInt(ctx, generationKey)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("analytics:%s:%d:%s", operation, generation, hashParams(params)), nil
}

// hashParams creates a short stable hash of the query parameters.
func hashParams(params interface{}) string {
	jsonData, _ := json.Marshal(params)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf("%x", hash[:8])
}
