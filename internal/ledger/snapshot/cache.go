package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores the serialized latest snapshot. Implementations return
// (nil, nil) on a miss.
type Cache interface {
	Set(ctx context.Context, value []byte, ttl time.Duration) error
	Get(ctx context.Context) ([]byte, error)
}

const cacheKey = "coinscious:ledger:snapshot:latest"

// RedisCache backs the snapshot cache with Redis so every replica serves
// the same capture to the payout engine.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps a connected Redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Set(ctx context.Context, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, cacheKey, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context) ([]byte, error) {
	value, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// MemoryCache is the single-process fallback used in tests and when Redis
// is not configured.
type MemoryCache struct {
	mu        sync.RWMutex
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-process snapshot cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Set(ctx context.Context, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = append([]byte(nil), value...)
	c.expiresAt = time.Now().Add(ttl)
	return nil
}

func (c *MemoryCache) Get(ctx context.Context) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.value == nil || time.Now().After(c.expiresAt) {
		return nil, nil
	}
	return append([]byte(nil), c.value...), nil
}
