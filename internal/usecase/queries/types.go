package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID          uuid.UUID        `json:"id"`
	EventID     uuid.UUID        `json:"event_id"`
	UserID      uuid.UUID        `json:"user_id"`
	AmountCents int64            `json:"amount_cents"`
	Status      string           `json:"status"`
	Seats       []BookedSeatView `json:"seats"`
	CreatedAt   time.Time        `json:"created_at"`
}

type BookedSeatView struct {
	SeatID     uuid.UUID `json:"seat_id"`
	SeatNumber string    `json:"seat_number"`
	SeatType   string    `json:"seat_type"`
	PriceCents int64     `json:"price_cents"`
}

type BookingListItem struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	SeatCount   int64     `json:"seat_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// SeatView carries the lock/claim state a client needs to render
// availability. Available is computed against the read's reference time.
type SeatView struct {
	ID          uuid.UUID  `json:"id"`
	SeatNumber  string     `json:"seat_number"`
	SeatType    string     `json:"seat_type"`
	PriceCents  int64      `json:"price_cents"`
	Available   bool       `json:"available"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
}
