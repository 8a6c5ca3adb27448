package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON is a typed wrapper over Cache.GetOrLoad that marshals the
// loaded value to JSON for storage.
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	if c == nil {
		return load(ctx)
	}

	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}

	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return zero, e
	}
	return out, nil
}
