package common

import (
	"context"
	"errors"
	"time"

	"carclub/paddock/internal/logging"

	"github.com/redis/go-redis/v9"
)

const redisCacheTimeout = 500 * time.Millisecond

// RedisCacheService shares cache entries across replicas. Every call is
// bounded by redisCacheTimeout so a slow Redis degrades to cache misses
// instead of stalling requests.
type RedisCacheService struct {
	client *redis.Client
	prefix string
}

var _ CacheInterface = (*RedisCacheService)(nil)

func NewRedisCacheService(client *redis.Client, prefix string) *RedisCacheService {
	return &RedisCacheService{client: client, prefix: prefix}
}

func (r *RedisCacheService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		logging.Warn("redis cache set failed", "key", key, "error", err)
	}
}

func (r *RedisCacheService) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		logging.Warn("redis cache get failed", "key", key, "error", err)
		return nil, false
	}
	return data, true
}

func (r *RedisCacheService) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		logging.Warn("redis cache delete failed", "key", key, "error", err)
	}
}

// Close is a no-op: the client is shared with the payout queue and is
// closed by its owner.
func (r *RedisCacheService) Close() error {
	return nil
}
