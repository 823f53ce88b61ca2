package components

import (
	"ticket-booking/internal/infra/db"
	"ticket-booking/internal/infra/provider"
	"ticket-booking/internal/infra/readstore"
	"ticket-booking/internal/infra/uow"
	"ticket-booking/internal/pkg/config"
	"ticket-booking/internal/usecase/queries"
	"ticket-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewSeatReadStore,
			fx.As(new(queries.SeatReadStore)),
		),
		NewProviderRegistry,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewProviderRegistry(cfg config.WebhookConfig) *provider.Registry {
	return provider.NewRegistry(
		provider.NewCashfreeAdapter(cfg),
	)
}
