package redis_fx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"tradementor/internal/infra"
	"tradementor/pkg/codestore"
	"tradementor/pkg/lock"
)

var Module = fx.Provide(
	provideRedis, provideCodeStore, provideLocker)

func provideRedis(lc fx.Lifecycle) *redis.Client {
	client := infra.InitRedis()

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}

func provideCodeStore(client *redis.Client) codestore.Store {
	return codestore.NewRedisStore(client)
}

func provideLocker(client *redis.Client) lock.Locker {
	return lock.NewRedisLocker(client)
}
