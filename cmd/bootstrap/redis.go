package bootstrap

import (
	"context"

	"ticket-booking/internal/infra/cache"
	"ticket-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
		cache.NewAvailabilityCache,
	),
)

// NewRedis may return nil when Redis is unreachable; the availability cache
// degrades to pass-through in that case.
func NewRedis(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	client := cache.NewRedisClient(cfg.Redis)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if client != nil {
				return client.Close()
			}
			return nil
		},
	})

	return client
}
