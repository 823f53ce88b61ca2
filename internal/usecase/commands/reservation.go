package commands

import (
	"context"
	"errors"
	"log/slog"

	"ticket-booking/internal/domain/booking"
	"ticket-booking/internal/domain/seat"
	"ticket-booking/internal/infra"
	"ticket-booking/internal/pkg/clock"
	"ticket-booking/internal/pkg/config"
	"ticket-booking/internal/pkg/errs"
	"ticket-booking/internal/usecase/queries"
	"ticket-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSeatUnavailable         = errs.New("seats no longer available")
	ErrAmountMismatch          = errs.New("amount does not match seat prices")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// SeatSelection is the client's view of one requested seat. Price and type
// are echoed back so a selection made against stale data is rejected instead
// of silently repriced.
type SeatSelection struct {
	SeatID     uuid.UUID
	PriceCents int64
	SeatType   seat.Type
}

type ReserveParams struct {
	EventID     uuid.UUID
	UserID      uuid.UUID
	Seats       []SeatSelection
	AmountCents int64
}

// AvailabilityInvalidator drops cached seat views after a commit changes
// seat state.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, eventID uuid.UUID) error
}

type ReservationCommands interface {
	// Reserve atomically claims the requested seats and produces a PENDING
	// booking. On contention exactly one caller wins each seat; losers get
	// ErrSeatUnavailable and must reselect against a fresh availability read.
	Reserve(ctx context.Context, params ReserveParams) (*queries.BookingView, error)
}

type reservationCommandsImpl struct {
	uow            shared.UnitOfWork
	bookingQueries queries.BookingQueries
	invalidator    AvailabilityInvalidator
	clock          clock.Clock
	cfg            config.BookingConfig
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	invalidator AvailabilityInvalidator,
	clock clock.Clock,
	cfg config.BookingConfig,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:            uow,
		bookingQueries: bookingQueries,
		invalidator:    invalidator,
		clock:          clock,
		cfg:            cfg,
	}
}

func (r *reservationCommandsImpl) Reserve(ctx context.Context, params ReserveParams) (*queries.BookingView, error) {
	seatIDs, err := validateSelection(params.Seats)
	if err != nil {
		return nil, err
	}

	var bookingID uuid.UUID
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		seats, err := tx.Seats().LockForUpdate(ctx, seatIDs)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		// A missing row means the seat does not exist (or was deleted);
		// indistinguishable from taken as far as the caller is concerned.
		if len(seats) != len(params.Seats) {
			return ErrSeatUnavailable
		}

		byID := make(map[uuid.UUID]*seat.Seat, len(seats))
		for _, s := range seats {
			byID[s.ID()] = s
		}

		now := r.clock.Now()
		prices := make([]int64, 0, len(params.Seats))
		for _, sel := range params.Seats {
			s, ok := byID[sel.SeatID]
			if !ok {
				return ErrSeatUnavailable
			}
			if err := s.ValidateClaimable(params.EventID, sel.PriceCents, sel.SeatType, now); err != nil {
				return errs.Mark(err, ErrSeatUnavailable)
			}
			prices = append(prices, s.PriceCents())
		}

		b, err := booking.NewBooking(params.EventID, params.UserID, seatIDs, prices, params.AmountCents)
		if err != nil {
			if errors.Is(err, booking.ErrAmountMismatch) {
				return errs.Mark(err, ErrAmountMismatch)
			}
			return errs.Mark(err, ErrDomainValidation)
		}

		if err := tx.Bookings().Create(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// The insert is the durable claim; the unique constraint on seat_id
		// turns any lock-handling bug into a conflict instead of a double sale.
		if err := tx.Bookings().CreateBookedSeats(ctx, b.ID(), seatIDs); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrSeatUnavailable
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Soft lock consumed by the sweeper; the booked_seats rows above are
		// what actually reserves the seats.
		if err := tx.Seats().UpdateLock(ctx, seatIDs, now.Add(r.cfg.LockDuration)); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		bookingID = b.ID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.invalidator.Invalidate(ctx, params.EventID); err != nil {
		slog.Warn("failed to invalidate seat cache after reservation",
			"event_id", params.EventID, "error", err.Error())
	}

	// Read-after-write: return the complete view from the read store
	view, err := r.bookingQueries.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func validateSelection(sels []SeatSelection) ([]uuid.UUID, error) {
	if len(sels) == 0 {
		return nil, errs.Mark(booking.ErrNoSeats, ErrDomainValidation)
	}

	ids := make([]uuid.UUID, 0, len(sels))
	seen := make(map[uuid.UUID]struct{}, len(sels))
	for _, sel := range sels {
		if _, dup := seen[sel.SeatID]; dup {
			return nil, errs.Mark(booking.ErrDuplicateSeat, ErrDomainValidation)
		}
		seen[sel.SeatID] = struct{}{}
		ids = append(ids, sel.SeatID)
	}
	return ids, nil
}
