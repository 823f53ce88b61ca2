package commands

import (
	"context"
	"errors"
	"log/slog"

	"ticket-booking/internal/domain/booking"
	"ticket-booking/internal/infra"
	"ticket-booking/internal/pkg/clock"
	"ticket-booking/internal/pkg/errs"
	"ticket-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// sentinel for a candidate that a webhook finalized between the scan and
// our guarded update; the reclaim transaction rolls back and the booking
// is left alone
var errAlreadyFinalized = errs.New("booking already finalized")

type SweeperCommands interface {
	// Sweep expires every pending booking whose seat lock window has lapsed,
	// releasing its seats. Each booking is reclaimed in its own transaction
	// so one failure cannot poison the rest of the batch. Returns the number
	// of bookings expired.
	Sweep(ctx context.Context) (int, error)
}

type sweeperCommandsImpl struct {
	uow         shared.UnitOfWork
	invalidator AvailabilityInvalidator
	clock       clock.Clock
}

func NewSweeperCommands(uow shared.UnitOfWork, invalidator AvailabilityInvalidator, clock clock.Clock) SweeperCommands {
	return &sweeperCommandsImpl{uow: uow, invalidator: invalidator, clock: clock}
}

func (s *sweeperCommandsImpl) Sweep(ctx context.Context) (int, error) {
	now := s.clock.Now()

	var candidates []shared.ExpiredPendingBooking
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		candidates, err = tx.Bookings().FindExpiredPending(ctx, now)
		return err
	})
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	expired := 0
	touchedEvents := make(map[uuid.UUID]struct{})
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := s.reclaim(ctx, cand.ID); err != nil {
			if errors.Is(err, errAlreadyFinalized) {
				continue
			}
			slog.Error("failed to expire booking",
				"booking_id", cand.ID, "error", err.Error())
			continue
		}
		expired++
		touchedEvents[cand.EventID] = struct{}{}
	}

	for eventID := range touchedEvents {
		if err := s.invalidator.Invalidate(ctx, eventID); err != nil {
			slog.Warn("failed to invalidate seat cache after sweep",
				"event_id", eventID, "error", err.Error())
		}
	}

	if expired > 0 {
		slog.Info("expired stale pending bookings", "count", expired)
	}
	return expired, nil
}

func (s *sweeperCommandsImpl) reclaim(ctx context.Context, bookingID uuid.UUID) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// The guarded transition is the linearization point against the
		// payment reconciler; whoever lands it owns the booking's fate.
		err := tx.Bookings().UpdateStatus(ctx, bookingID, booking.StatusPending, booking.StatusExpired)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errAlreadyFinalized
			}
			return err
		}

		seatIDs, err := tx.Bookings().DeleteBookedSeats(ctx, bookingID)
		if err != nil {
			return err
		}
		if len(seatIDs) > 0 {
			if err := tx.Seats().ClearLock(ctx, seatIDs); err != nil {
				return err
			}
		}

		// A stray payment row left PENDING by a lost webhook is closed out
		// alongside its booking.
		return tx.Payments().UpdateStatusByBooking(ctx, bookingID, booking.StatusPending, booking.StatusFailed)
	})
}
