package response

import (
	"time"

	"ticket-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID          uuid.UUID        `json:"id"`
	EventID     uuid.UUID        `json:"eventId"`
	UserID      uuid.UUID        `json:"userId"`
	AmountCents int64            `json:"amountCents"`
	Status      string           `json:"status"`
	Seats       []BookedSeatItem `json:"seats"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type BookedSeatItem struct {
	SeatID     uuid.UUID `json:"seatId"`
	SeatNumber string    `json:"seatNumber"`
	SeatType   string    `json:"seatType"`
	PriceCents int64     `json:"priceCents"`
}

type BookingListResponse struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"eventId"`
	AmountCents int64     `json:"amountCents"`
	Status      string    `json:"status"`
	SeatCount   int64     `json:"seatCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	// Field names line up with the read model; copier keeps the mapping
	// from drifting as columns are added.
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	var resp BookingListResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
