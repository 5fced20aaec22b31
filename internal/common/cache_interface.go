package common

import (
	"context"
	"time"
)

// CacheInterface is a best-effort byte cache. Misses and backend failures
// look the same to callers, who must always be able to fall back to the
// store.
type CacheInterface interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Get(ctx context.Context, key string) ([]byte, bool)
	Delete(ctx context.Context, key string)
	Close() error
}
