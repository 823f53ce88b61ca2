package bootstrap

import (
	"ticket-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
		func(cfg config.Config) config.WebhookConfig { return cfg.Webhook },
		func(cfg config.Config) config.RedisConfig { return cfg.Redis },
	),
)
