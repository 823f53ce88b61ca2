package bootstrap

import (
	"context"

	"ticket-booking/internal/pkg/config"
	"ticket-booking/internal/usecase/commands"
	"ticket-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(RunSweeper),
)

func NewSweeper(sweep commands.SweeperCommands, cfg config.BookingConfig) *worker.Sweeper {
	return worker.NewSweeper(sweep, cfg.SweepInterval)
}

func RunSweeper(lc fx.Lifecycle, sweeper *worker.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
