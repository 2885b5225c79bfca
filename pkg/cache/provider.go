package cache

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

var ProviderSet = wire.NewSet(ProvideRedis, ProvideICache)

// ProvideRedis connects and closes the client on cleanup.
func ProvideRedis(conf Redis) (redis.UniversalClient, func(), error) {
	client, err := NewRedis(conf)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func ProvideICache(client redis.UniversalClient) ICache {
	return NewRedisCache(client)
}
