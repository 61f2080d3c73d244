package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache stores opaque values with a TTL. Implementations are safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON decodes a cached JSON value into out. It reports whether the key
// was present.
func GetJSON(ctx context.Context, c Cache, key string, out any) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

func SetJSON(ctx context.Context, c Cache, key string, val any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}
