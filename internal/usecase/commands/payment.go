package commands

import (
	"context"
	"errors"
	"log/slog"

	"ticket-booking/internal/domain/booking"
	"ticket-booking/internal/domain/payment"
	"ticket-booking/internal/infra"
	"ticket-booking/internal/infra/provider"
	"ticket-booking/internal/pkg/errs"
	"ticket-booking/internal/usecase/shared"
)

var (
	ErrBookingNotFound         = errs.New("booking not found")
	ErrInvalidSignature        = errs.New("invalid webhook signature")
	ErrUnknownNotificationType = errs.New("unknown notification type")
	ErrInvariantViolation      = errs.New("booking state invariant violated")

	// internal sentinel: another writer finalized the booking between our
	// read and the status update, roll back and report idempotent success
	errConcurrentlyFinalized = errs.New("booking finalized concurrently")
)

type NotificationOutcome string

const (
	OutcomeProcessed        NotificationOutcome = "PROCESSED"
	OutcomeAlreadyProcessed NotificationOutcome = "ALREADY_PROCESSED"
)

// NotificationResult reports what the reconciler did with one notification.
// Status is the booking's terminal status after the call, whether this call
// set it or an earlier delivery did.
type NotificationResult struct {
	Outcome NotificationOutcome
	Status  booking.Status
}

type PaymentCommands interface {
	// HandleNotification verifies, parses, and applies one provider webhook.
	// Redelivery of an already-applied notification is a no-op reported as
	// OutcomeAlreadyProcessed, so providers may retry freely.
	HandleNotification(ctx context.Context, providerName string, body []byte, signature, timestamp string) (*NotificationResult, error)
}

type paymentCommandsImpl struct {
	uow       shared.UnitOfWork
	providers *provider.Registry
}

func NewPaymentCommands(uow shared.UnitOfWork, providers *provider.Registry) PaymentCommands {
	return &paymentCommandsImpl{uow: uow, providers: providers}
}

func (p *paymentCommandsImpl) HandleNotification(ctx context.Context, providerName string, body []byte, signature, timestamp string) (*NotificationResult, error) {
	adapter, err := p.providers.Get(providerName)
	if err != nil {
		return nil, err
	}

	if err := adapter.VerifySignature(body, signature, timestamp); err != nil {
		slog.Warn("webhook signature verification failed",
			"provider", providerName, "error", err.Error())
		return nil, errs.Mark(err, ErrInvalidSignature)
	}

	env, err := adapter.Parse(body)
	if err != nil {
		return nil, err
	}

	finalStatus, err := payment.TerminalStatusForEvent(env.EventType)
	if err != nil {
		return nil, errs.Mark(err, ErrUnknownNotificationType)
	}

	result := &NotificationResult{Outcome: OutcomeProcessed, Status: finalStatus}
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Bookings().Get(ctx, env.BookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Idempotency guard: a terminal booking has already been reconciled.
		if snap.Status.IsTerminal() {
			result.Outcome = OutcomeAlreadyProcessed
			result.Status = snap.Status
			return nil
		}
		if snap.Status != booking.StatusPending {
			slog.Error("booking in unexpected non-terminal state",
				"booking_id", snap.ID, "status", snap.Status)
			return ErrInvariantViolation
		}

		pay, err := payment.NewPayment(env.BookingID, env.PayerID, snap.EventID, env.AmountCents, finalStatus)
		if err != nil {
			return errs.Mark(err, ErrInvariantViolation)
		}
		if err := tx.Payments().Upsert(ctx, pay); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Guarded transition; losing the race to the sweeper or a duplicate
		// delivery shows up as zero rows here.
		if err := tx.Bookings().UpdateStatus(ctx, env.BookingID, booking.StatusPending, finalStatus); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errConcurrentlyFinalized
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err == nil {
		return result, nil
	}
	if errors.Is(err, errConcurrentlyFinalized) {
		return p.resolveLostRace(ctx, env)
	}
	return nil, err
}

// resolveLostRace re-reads after a failed guarded update. A concurrent writer
// taking the booking terminal is ordinary redelivery contention; anything
// else means state went backwards and must be surfaced loudly.
func (p *paymentCommandsImpl) resolveLostRace(ctx context.Context, env *payment.Envelope) (*NotificationResult, error) {
	var snap *shared.BookingSnapshot
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		snap, err = tx.Bookings().Get(ctx, env.BookingID)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if snap.Status.IsTerminal() {
		return &NotificationResult{Outcome: OutcomeAlreadyProcessed, Status: snap.Status}, nil
	}
	slog.Error("guarded status update failed on a pending booking",
		"booking_id", env.BookingID, "status", snap.Status)
	return nil, ErrInvariantViolation
}
