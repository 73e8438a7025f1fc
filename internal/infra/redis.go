package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// ── Lookup cache ─────────────────────────────────────────────────────────────

// LookupCache remembers product lookups by scan key for a short time so a
// shelf of identical items scans without a backend round trip each.
type LookupCache interface {
	Get(ctx context.Context, key string) (model.Product, bool)
	Set(ctx context.Context, key string, p model.Product)
	// Invalidate drops every cached lookup that resolved to one of
	// productIDs, so the next scan sees fresh stock.
	Invalidate(ctx context.Context, productIDs ...string)
}

const (
	lookupKeyPrefix   = "lookup:"
	lookupIndexPrefix = "lookup:product:" // set of scan keys cached per product id
)

// RedisLookupCache is a LookupCache stored in Redis with a TTL.
// Every error is treated as a miss: the cache never fails a scan.
type RedisLookupCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLookupCache(rdb *redis.Client, ttl time.Duration) *RedisLookupCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLookupCache{rdb: rdb, ttl: ttl}
}

func (c *RedisLookupCache) Get(ctx context.Context, key string) (model.Product, bool) {
	cached, err := c.rdb.Get(ctx, lookupKeyPrefix+key).Bytes()
	if err != nil {
		return model.Product{}, false
	}
	var p model.Product
	if err := json.Unmarshal(cached, &p); err != nil {
		return model.Product{}, false
	}
	return p, true
}

// Set populates the cache, best effort. The key is also indexed under the
// product id for Invalidate; the index lives as long as its newest entry.
func (c *RedisLookupCache) Set(ctx context.Context, key string, p model.Product) {
	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	idx := lookupIndexPrefix + p.ID
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, lookupKeyPrefix+key, b, c.ttl)
	pipe.SAdd(ctx, idx, key)
	pipe.Expire(ctx, idx, c.ttl)
	_, _ = pipe.Exec(ctx)
}

// Invalidate deletes the cached lookups of productIDs, best effort.
func (c *RedisLookupCache) Invalidate(ctx context.Context, productIDs ...string) {
	for _, id := range productIDs {
		idx := lookupIndexPrefix + id
		keys, err := c.rdb.SMembers(ctx, idx).Result()
		if err != nil {
			continue
		}
		del := make([]string, 0, len(keys)+1)
		for _, k := range keys {
			del = append(del, lookupKeyPrefix+k)
		}
		del = append(del, idx)
		_ = c.rdb.Del(ctx, del...).Err()
	}
}
