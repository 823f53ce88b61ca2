package repository

import (
	"context"
	"time"

	"ticket-booking/internal/domain/booking"
	"ticket-booking/internal/infra"
	"ticket-booking/internal/infra/db"
	"ticket-booking/internal/pkg/pgconv"
	"ticket-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO bookings (id, event_id, user_id, amount_cents, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		b.ID(), b.EventID(), b.UserID(), b.AmountCents(), b.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

// The unique constraint on booked_seats.seat_id is the backstop behind the
// row locks: even a bug in lock handling cannot produce a double sale.
func (r *BookingRepository) CreateBookedSeats(ctx context.Context, bookingID uuid.UUID, seatIDs []uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO booked_seats (seat_id, booking_id)
		 SELECT unnest($1::uuid[]), $2`,
		seatIDs, bookingID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booked seats", err)
	}
	return nil
}

func (r *BookingRepository) Get(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var snap shared.BookingSnapshot
	var status string
	err := r.db.QueryRow(ctx,
		`SELECT id, event_id, user_id, amount_cents, status, created_at
		 FROM bookings WHERE id = $1`,
		id,
	).Scan(&snap.ID, &snap.EventID, &snap.UserID, &snap.AmountCents, &status, &snap.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking", err)
	}
	snap.Status = booking.Status(status)
	return &snap, nil
}

// UpdateStatus is a compare-and-set: zero rows affected means the booking was
// no longer in the expected status, reported as KindConflict so callers can
// distinguish a lost race from a store failure.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to booking.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $3 WHERE id = $1 AND status = $2`,
		id, from.String(), to.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking status changed concurrently", nil, infra.KindConflict)
	}
	return nil
}

// A booking qualifies for reclaim as soon as any of its seats' lock windows
// has elapsed; the hold was granted as one unit.
const findExpiredPendingQuery = `
SELECT b.id, b.event_id
FROM bookings b
WHERE b.status = 'PENDING'
  AND EXISTS (
    SELECT 1
    FROM booked_seats bs
    JOIN seats s ON s.id = bs.seat_id
    WHERE bs.booking_id = b.id
      AND s.locked_until IS NOT NULL
      AND s.locked_until < $1
  )
ORDER BY b.created_at
`

func (r *BookingRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]shared.ExpiredPendingBooking, error) {
	rows, err := r.db.Query(ctx, findExpiredPendingQuery, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find expired pending bookings", err)
	}
	defer rows.Close()

	var result []shared.ExpiredPendingBooking
	for rows.Next() {
		var eb shared.ExpiredPendingBooking
		if err := rows.Scan(&eb.ID, &eb.EventID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired booking row", err)
		}
		result = append(result, eb)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read expired booking rows", err)
	}

	return result, nil
}

func (r *BookingRepository) DeleteBookedSeats(ctx context.Context, bookingID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`DELETE FROM booked_seats WHERE booking_id = $1 RETURNING seat_id`,
		bookingID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to delete booked seats", err)
	}
	defer rows.Close()

	var seatIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan freed seat id", err)
		}
		seatIDs = append(seatIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read freed seat ids", err)
	}

	return seatIDs, nil
}
