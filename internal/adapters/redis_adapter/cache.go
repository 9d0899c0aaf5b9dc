// internal/adapters/redis_adapter/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// CacheKeyPrefix groups keys by the read model they hold
type CacheKeyPrefix string

const (
	PrefixDashboard CacheKeyPrefix = "dash"
	PrefixDelivery  CacheKeyPrefix = "delivery"
	PrefixSyncLock  CacheKeyPrefix = "synclock"
)

// ErrCacheMiss is returned by Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// Cache is a JSON cache in Redis. Every key is stored under namespace so
// several deployments can share one Redis database.
type Cache struct {
	client    redis.UniversalClient
	namespace string
	loads     singleflight.Group
	logger    *slog.Logger
}

var _ ports.CacheRepository = (*Cache)(nil)

// NewCache creates a cache writing under namespace. An empty namespace
// stores keys as given.
func NewCache(client redis.UniversalClient, namespace string, logger *slog.Logger) *Cache {
	return &Cache{
		client:    client,
		namespace: namespace,
		logger:    logger.With(slog.String("component", "cache")),
	}
}

func (c *Cache) key(key string) string {
	if c.namespace == "" {
		return key
	}
	return c.namespace + ":" + key
}

// Set stores value as JSON for ttl
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Get decodes the cached value into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode cache value for %s: %w", key, err)
	}
	return nil
}

// Invalidate drops keys so the next read reloads them
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache keys: %w", err)
	}
	c.logger.DebugContext(ctx, "cache invalidated", slog.Any("keys", keys))
	return nil
}

// GetOrSet serves dest from the cache when possible. On a miss, or when
// Redis cannot be read, load runs once per key across concurrent callers
// and its result is cached for ttl. A failed write only logs.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest any,
	load func() (any, error), ttl time.Duration) error {

	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.WarnContext(ctx, "cache read failed, loading from source",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	data, err, shared := c.loads.Do(key, func() (any, error) {
		value, err := load()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode loaded value: %w", err)
		}
		if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "failed to cache loaded value",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return data, nil
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if shared {
		c.logger.DebugContext(ctx, "cache load shared", slog.String("key", key))
	}
	return json.Unmarshal(data.([]byte), dest)
}

// Ping checks if Redis is accessible
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}
	return nil
}

// BuildKey joins prefix and parts with colons
func BuildKey(prefix CacheKeyPrefix, parts ...string) string {
	return strings.Join(append([]string{string(prefix)}, parts...), ":")
}
