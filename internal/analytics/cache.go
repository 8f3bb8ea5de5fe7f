package analytics

import (
	"context"
	"time"

	"homecare-rental/internal/config"
)

// RedisCache keeps summaries in the shared redis connection. Every call is a
// no-op miss when redis is not configured.
type RedisCache struct{}

func (RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return config.GetRedisObject(ctx, key, dest)
}

func (RedisCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	return config.SetRedisObject(ctx, key, v, ttl)
}
