package request

import (
	"ticket-booking/internal/domain/seat"
	"ticket-booking/internal/pkg/errs"
	"ticket-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

var ErrInvalidSeatType = errs.New("invalid seat type")

type SeatSelectionRequest struct {
	SeatID     uuid.UUID `json:"seat_id" binding:"required"`
	PriceCents int64     `json:"price_cents" binding:"required,gt=0"`
	SeatType   string    `json:"seat_type" binding:"required"`
}

type CreateBookingRequest struct {
	EventID     uuid.UUID              `json:"event_id" binding:"required"`
	Seats       []SeatSelectionRequest `json:"seats" binding:"required,min=1,dive"`
	AmountCents int64                  `json:"amount_cents" binding:"required,gt=0"`
}

func (r CreateBookingRequest) ToParams(userID uuid.UUID) (commands.ReserveParams, error) {
	sels := make([]commands.SeatSelection, 0, len(r.Seats))
	for _, s := range r.Seats {
		st := seat.Type(s.SeatType)
		if !st.IsValid() {
			return commands.ReserveParams{}, ErrInvalidSeatType
		}
		sels = append(sels, commands.SeatSelection{
			SeatID:     s.SeatID,
			PriceCents: s.PriceCents,
			SeatType:   st,
		})
	}
	return commands.ReserveParams{
		EventID:     r.EventID,
		UserID:      userID,
		Seats:       sels,
		AmountCents: r.AmountCents,
	}, nil
}

type AvailabilityRequest struct {
	EventID uuid.UUID   `json:"event_id" binding:"required"`
	SeatIDs []uuid.UUID `json:"seat_ids" binding:"required,min=1"`
}
