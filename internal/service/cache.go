package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	cacheTTLShort = 5 * time.Minute
	cacheTTLLong  = 2 * time.Hour
)

// Cache is a best-effort read-through cache. Failures are swallowed: a cache
// miss is always an acceptable answer.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Del(ctx context.Context, keys ...string)
}

type redisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, raw, ttl)
}

func (c *redisCache) Del(ctx context.Context, keys ...string) {
	_ = c.rdb.Del(ctx, keys...)
}

// NopCache satisfies Cache without storing anything; used when Redis is not
// configured and in tests.
type NopCache struct{}

func (NopCache) Get(ctx context.Context, key string, dest interface{}) bool { return false }
func (NopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {}
func (NopCache) Del(ctx context.Context, keys ...string) {}
