package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ICache is the subset of redis commands guestline relies on.
type ICache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	// SetNX backs the resend throttle.
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RedisCache adapts a universal client to ICache.
type RedisCache struct {
	redis.UniversalClient
}

func NewRedisCache(client redis.UniversalClient) ICache {
	return &RedisCache{UniversalClient: client}
}
