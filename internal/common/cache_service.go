package common

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the in-process cache used when no Redis is configured.
// It is per replica, so invalidations do not reach other instances.
type CacheService struct {
	cache *cache.Cache
}

var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpiration, cleanUpInterval time.Duration) *CacheService {
	return &CacheService{cache: cache.New(defaultExpiration, cleanUpInterval)}
}

func (cs *CacheService) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	cs.cache.Set(key, value, ttl)
}

func (cs *CacheService) Get(_ context.Context, key string) ([]byte, bool) {
	val, found := cs.cache.Get(key)
	if !found {
		return nil, false
	}
	b, ok := val.([]byte)
	return b, ok
}

func (cs *CacheService) Delete(_ context.Context, key string) {
	cs.cache.Delete(key)
}

func (cs *CacheService) Close() error {
	cs.cache.Flush()
	return nil
}

// ItemCount includes expired entries the janitor has not swept yet.
func (cs *CacheService) ItemCount() int {
	return cs.cache.ItemCount()
}
