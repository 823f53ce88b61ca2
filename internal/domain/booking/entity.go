package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoSeats           = errors.New("booking requires at least one seat")
	ErrNegativeAmount    = errors.New("booking amount cannot be negative")
	ErrAmountMismatch    = errors.New("booking amount does not match seat prices")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrDuplicateSeat     = errors.New("duplicate seat in selection")
	ErrAlreadyTerminal   = errors.New("booking already reached a terminal status")
	ErrNotPending        = errors.New("booking is not pending")
)

// Booking is one attempt to buy a set of seats. It is created PENDING and
// moves to exactly one terminal status: SUCCESS/FAILED via payment
// reconciliation or EXPIRED via the sweeper.
type Booking struct {
	id          uuid.UUID
	eventID     uuid.UUID
	userID      uuid.UUID
	seatIDs     []uuid.UUID
	amountCents int64
	status      Status
	createdAt   time.Time
}

// NewBooking validates the selection and produces a PENDING booking.
// seatPriceCents are the store-side prices of the selected seats; the claimed
// amount must equal their sum.
func NewBooking(eventID, userID uuid.UUID, seatIDs []uuid.UUID, seatPriceCents []int64, amountCents int64) (*Booking, error) {
	if len(seatIDs) == 0 {
		return nil, ErrNoSeats
	}
	if amountCents < 0 {
		return nil, ErrNegativeAmount
	}

	seen := make(map[uuid.UUID]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateSeat
		}
		seen[id] = struct{}{}
	}

	var total int64
	for _, p := range seatPriceCents {
		total += p
	}
	if total != amountCents {
		return nil, ErrAmountMismatch
	}

	ids := make([]uuid.UUID, len(seatIDs))
	copy(ids, seatIDs)

	return &Booking{
		id:          uuid.New(),
		eventID:     eventID,
		userID:      userID,
		seatIDs:     ids,
		amountCents: amountCents,
		status:      StatusPending,
	}, nil
}

func ReconstructBooking(
	id, eventID, userID uuid.UUID,
	amountCents int64,
	status Status,
	createdAt time.Time,
) (*Booking, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Booking{
		id:          id,
		eventID:     eventID,
		userID:      userID,
		amountCents: amountCents,
		status:      status,
		createdAt:   createdAt,
	}, nil
}

// TransitionTo moves the booking to a terminal status. Calling it on an
// already-terminal booking is a bug in the caller; the guards in the
// reconciler and sweeper are supposed to no-op first.
func (b *Booking) TransitionTo(next Status) error {
	if b.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	b.status = next
	return nil
}

func (b *Booking) IsPending() bool  { return b.status == StatusPending }
func (b *Booking) IsTerminal() bool { return b.status.IsTerminal() }

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) EventID() uuid.UUID   { return b.eventID }
func (b *Booking) UserID() uuid.UUID    { return b.userID }
func (b *Booking) SeatIDs() []uuid.UUID { return b.seatIDs }
func (b *Booking) AmountCents() int64   { return b.amountCents }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
