//go:build unit || e2e

package builder

import (
	"time"

	dombooking "ticket-booking/internal/domain/booking"
	domseat "ticket-booking/internal/domain/seat"
	reqdto "ticket-booking/internal/handler/dto/request"
	"ticket-booking/internal/usecase/commands"
	"ticket-booking/internal/usecase/queries"
	"ticket-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	UserID      uuid.UUID
	Seats       []*SeatBuilder
	AmountCents int64
	Status      dombooking.Status
	CreatedAt   time.Time
}

// NewBookingBuilder starts with two seats on one event; the amount matches
// their prices so the default case passes validation.
func NewBookingBuilder() *BookingBuilder {
	eventID := uuid.New()
	seatA := NewSeatBuilder()
	seatA.EventID = eventID
	seatA.SeatNumber = "A1"
	seatB := NewSeatBuilder()
	seatB.EventID = eventID
	seatB.SeatNumber = "A2"

	return &BookingBuilder{
		ID:          uuid.New(),
		EventID:     eventID,
		UserID:      uuid.New(),
		Seats:       []*SeatBuilder{seatA, seatB},
		AmountCents: seatA.PriceCents + seatB.PriceCents,
		Status:      dombooking.StatusPending,
		CreatedAt:   time.Now(),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) SeatIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(b.Seats))
	for i, s := range b.Seats {
		ids[i] = s.ID
	}
	return ids
}

func (b *BookingBuilder) SeatPrices() []int64 {
	prices := make([]int64, len(b.Seats))
	for i, s := range b.Seats {
		prices[i] = s.PriceCents
	}
	return prices
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	return dombooking.NewBooking(b.EventID, b.UserID, b.SeatIDs(), b.SeatPrices(), b.AmountCents)
}

func (b *BookingBuilder) BuildSnapshot() *shared.BookingSnapshot {
	return &shared.BookingSnapshot{
		ID:          b.ID,
		EventID:     b.EventID,
		UserID:      b.UserID,
		AmountCents: b.AmountCents,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildReserveParams() commands.ReserveParams {
	sels := make([]commands.SeatSelection, len(b.Seats))
	for i, s := range b.Seats {
		sels[i] = commands.SeatSelection{
			SeatID:     s.ID,
			PriceCents: s.PriceCents,
			SeatType:   s.SeatType,
		}
	}
	return commands.ReserveParams{
		EventID:     b.EventID,
		UserID:      b.UserID,
		Seats:       sels,
		AmountCents: b.AmountCents,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	sels := make([]reqdto.SeatSelectionRequest, len(b.Seats))
	for i, s := range b.Seats {
		sels[i] = reqdto.SeatSelectionRequest{
			SeatID:     s.ID,
			PriceCents: s.PriceCents,
			SeatType:   s.SeatType.String(),
		}
	}
	return reqdto.CreateBookingRequest{
		EventID:     b.EventID,
		Seats:       sels,
		AmountCents: b.AmountCents,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	seats := make([]queries.BookedSeatView, len(b.Seats))
	for i, s := range b.Seats {
		seats[i] = queries.BookedSeatView{
			SeatID:     s.ID,
			SeatNumber: s.SeatNumber,
			SeatType:   s.SeatType.String(),
			PriceCents: s.PriceCents,
		}
	}
	return &queries.BookingView{
		ID:          b.ID,
		EventID:     b.EventID,
		UserID:      b.UserID,
		AmountCents: b.AmountCents,
		Status:      b.Status.String(),
		Seats:       seats,
		CreatedAt:   b.CreatedAt,
	}
}

// BuildLockedSeats materializes the domain seats the way the row-locking
// read returns them.
func (b *BookingBuilder) BuildLockedSeats() ([]*domseat.Seat, error) {
	seats := make([]*domseat.Seat, len(b.Seats))
	for i, sb := range b.Seats {
		s, err := sb.BuildDomain()
		if err != nil {
			return nil, err
		}
		seats[i] = s
	}
	return seats, nil
}
