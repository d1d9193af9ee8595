package plancache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache stores serialized planning results by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*FallbackCache)(nil)
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// MemoryCache is a process-local cache.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("unexpected cache value type %T for %s", v, key)
	}
	return b, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, value, ttl)
	return nil
}

// FallbackCache reads the primary first and falls back to the secondary when
// the primary misses or errors. Writes go to both.
type FallbackCache struct {
	logger    *slog.Logger
	primary   Cache
	secondary Cache
}

func NewFallbackCache(primary, secondary Cache, logger *slog.Logger) *FallbackCache {
	return &FallbackCache{logger: logger, primary: primary, secondary: secondary}
}

func (c *FallbackCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok, err := c.primary.Get(ctx, key)
	if err == nil && ok {
		return b, true, nil
	}
	if err != nil {
		c.logger.WarnContext(ctx, "Primary plan cache read failed", slog.String("key", key), slog.Any("error", err))
	}
	return c.secondary.Get(ctx, key)
}

func (c *FallbackCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	primaryErr := c.primary.Set(ctx, key, value, ttl)
	if primaryErr != nil {
		c.logger.WarnContext(ctx, "Primary plan cache write failed", slog.String("key", key), slog.Any("error", primaryErr))
	}
	if err := c.secondary.Set(ctx, key, value, ttl); err != nil {
		return errors.Join(primaryErr, err)
	}
	return nil
}
