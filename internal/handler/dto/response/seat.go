package response

import (
	"time"

	"ticket-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SeatResponse struct {
	ID          uuid.UUID  `json:"id"`
	SeatNumber  string     `json:"seatNumber"`
	SeatType    string     `json:"seatType"`
	PriceCents  int64      `json:"priceCents"`
	Available   bool       `json:"available"`
	LockedUntil *time.Time `json:"lockedUntil,omitempty"`
}

type AvailabilityResponse struct {
	Available        bool        `json:"available"`
	UnavailableSeats []uuid.UUID `json:"unavailableSeats,omitempty"`
}

func FromSeatView(rm *queries.SeatView) *SeatResponse {
	var resp SeatResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromAvailabilityResult(rm *queries.AvailabilityResult) *AvailabilityResponse {
	return &AvailabilityResponse{
		Available:        rm.Available,
		UnavailableSeats: rm.UnavailableSeats,
	}
}
