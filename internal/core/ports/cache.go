// internal/core/ports/cache.go
package ports

import (
	"context"
	"time"
)

// CacheRepository stores JSON read models, such as the dashboard summary,
// that are cheaper to serve slightly stale than to recompute per request.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error

	// GetOrSet fills dest from the cache or, on a miss, from load. Concurrent
	// misses on one key share a single load.
	GetOrSet(ctx context.Context, key string, dest any, load func() (any, error), ttl time.Duration) error

	Ping(ctx context.Context) error
}
