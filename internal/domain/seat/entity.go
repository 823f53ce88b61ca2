package seat

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidType     = errors.New("invalid seat type")
	ErrNegativePrice   = errors.New("seat price cannot be negative")
	ErrWrongEvent      = errors.New("seat does not belong to event")
	ErrAlreadyClaimed  = errors.New("seat is already claimed")
	ErrCurrentlyLocked = errors.New("seat is locked by another reservation")
	ErrStaleSelection  = errors.New("seat selection does not match current seat data")
)

// Seat is the durable record of a single sellable seat. The claimed flag
// reflects whether a booked-seat row references it; a claimed seat is sold
// for good as far as this engine is concerned.
type Seat struct {
	id          uuid.UUID
	eventID     uuid.UUID
	seatNumber  string
	seatType    Type
	priceCents  int64
	lockedUntil *time.Time
	claimed     bool
}

func ReconstructSeat(
	id, eventID uuid.UUID,
	seatNumber string,
	seatType Type,
	priceCents int64,
	lockedUntil *time.Time,
	claimed bool,
) (*Seat, error) {
	if !seatType.IsValid() {
		return nil, ErrInvalidType
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	return &Seat{
		id:          id,
		eventID:     eventID,
		seatNumber:  seatNumber,
		seatType:    seatType,
		priceCents:  priceCents,
		lockedUntil: lockedUntil,
		claimed:     claimed,
	}, nil
}

// IsSoftLockedAt reports whether an in-flight reservation still holds this
// seat. An elapsed lock counts as free; the sweeper clears it lazily.
func (s *Seat) IsSoftLockedAt(now time.Time) bool {
	return s.lockedUntil != nil && s.lockedUntil.After(now)
}

// ValidateClaimable checks every condition a reservation needs before the seat
// may be claimed: right event, not sold, not held by someone else, and the
// client's selection not stale against current price/type.
func (s *Seat) ValidateClaimable(eventID uuid.UUID, selPriceCents int64, selType Type, now time.Time) error {
	if s.eventID != eventID {
		return ErrWrongEvent
	}
	if s.claimed {
		return ErrAlreadyClaimed
	}
	if s.IsSoftLockedAt(now) {
		return ErrCurrentlyLocked
	}
	if s.priceCents != selPriceCents || s.seatType != selType {
		return ErrStaleSelection
	}
	return nil
}

func (s *Seat) ID() uuid.UUID           { return s.id }
func (s *Seat) EventID() uuid.UUID      { return s.eventID }
func (s *Seat) SeatNumber() string      { return s.seatNumber }
func (s *Seat) SeatType() Type          { return s.seatType }
func (s *Seat) PriceCents() int64       { return s.priceCents }
func (s *Seat) LockedUntil() *time.Time { return s.lockedUntil }
func (s *Seat) IsClaimed() bool         { return s.claimed }
