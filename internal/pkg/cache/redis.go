package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through cache backed by Redis. Concurrent loads of the
// same key are collapsed into a single backend call.
type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

// New creates a Cache connected to the given Redis instance
func New(addr, password string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
	}
}

// Ping verifies the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.RDB.Ping(ctx).Err()
}

// Close releases the underlying Redis connection
func (c *Cache) Close() error {
	return c.RDB.Close()
}

// GetOrLoad returns the cached value for key, loading and caching it when
// absent. A nil Cache always loads directly, so callers can run without
// Redis configured.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}

	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops a cached key. A nil Cache is a no-op.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c == nil {
		return
	}
	_ = c.RDB.Del(ctx, key).Err()
}
