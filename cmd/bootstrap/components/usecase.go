package components

import (
	"ticket-booking/internal/infra/cache"
	"ticket-booking/internal/pkg/clock"
	"ticket-booking/internal/usecase"
	"ticket-booking/internal/usecase/commands"
	"ticket-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		func(c *cache.AvailabilityCache) *cache.AvailabilityCache { return c },
		fx.As(new(queries.AvailabilityCache)),
		fx.As(new(commands.AvailabilityInvalidator)),
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewSeatQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
		commands.NewPaymentCommands,
		commands.NewSweeperCommands,
	),
)
