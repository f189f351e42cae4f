package port

import (
	"context"
	"time"
)

// Cache is a key/value store with TTL, Get returns domain.ErrCacheMiss when the key is absent
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
