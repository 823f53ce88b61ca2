package readstore

import (
	"context"
	"time"

	"ticket-booking/internal/infra"
	"ticket-booking/internal/infra/db"
	"ticket-booking/internal/pkg/pgconv"
	"ticket-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const getBookingByIDQuery = `
SELECT id, event_id, user_id, amount_cents, status, created_at
FROM bookings
WHERE id = $1
`

const getBookedSeatsQuery = `
SELECT s.id, s.seat_number, s.seat_type, s.price_cents
FROM booked_seats bs
JOIN seats s ON s.id = bs.seat_id
WHERE bs.booking_id = $1
ORDER BY s.seat_number
`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var view queries.BookingView
	var createdAt time.Time
	err := r.db.QueryRow(ctx, getBookingByIDQuery, id).
		Scan(&view.ID, &view.EventID, &view.UserID, &view.AmountCents, &view.Status, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	view.CreatedAt = createdAt

	rows, err := r.db.Query(ctx, getBookedSeatsQuery, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booked seats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sv queries.BookedSeatView
		if err := rows.Scan(&sv.SeatID, &sv.SeatNumber, &sv.SeatType, &sv.PriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booked seat row", err)
		}
		view.Seats = append(view.Seats, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booked seat rows", err)
	}

	return &view, nil
}

const getBookingsByUserQuery = `
SELECT b.id, b.event_id, b.amount_cents, b.status, b.created_at,
       (SELECT count(*) FROM booked_seats bs WHERE bs.booking_id = b.id) AS seat_count
FROM bookings b
WHERE b.user_id = $1
ORDER BY b.created_at DESC
`

func (r *BookingReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, getBookingsByUserQuery, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by user", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(&item.ID, &item.EventID, &item.AmountCents, &item.Status, &item.CreatedAt, &item.SeatCount); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking list rows", err)
	}

	return result, nil
}
