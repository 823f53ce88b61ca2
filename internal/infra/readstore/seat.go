package readstore

import (
	"context"
	"time"

	"ticket-booking/internal/infra"
	"ticket-booking/internal/infra/db"
	"ticket-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type SeatReadStore struct {
	db db.DBTX
}

func NewSeatReadStore(dbtx db.DBTX) *SeatReadStore {
	return &SeatReadStore{db: dbtx}
}

// A lock expiring exactly at now counts as free, the same boundary the
// reservation path uses when it decides a seat is claimable.
func seatAvailable(claimed bool, lockedUntil *time.Time, now time.Time) bool {
	return !claimed && (lockedUntil == nil || !lockedUntil.After(now))
}

const getSeatsByEventQuery = `
SELECT s.id, s.seat_number, s.seat_type, s.price_cents, s.locked_until,
       EXISTS (SELECT 1 FROM booked_seats bs WHERE bs.seat_id = s.id) AS claimed
FROM seats s
WHERE s.event_id = $1
ORDER BY s.seat_number
`

func (r *SeatReadStore) FindByEventID(ctx context.Context, eventID uuid.UUID, now time.Time) ([]*queries.SeatView, error) {
	rows, err := r.db.Query(ctx, getSeatsByEventQuery, eventID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find seats by event", err)
	}
	defer rows.Close()

	var result []*queries.SeatView
	for rows.Next() {
		var (
			view    queries.SeatView
			claimed bool
		)
		if err := rows.Scan(&view.ID, &view.SeatNumber, &view.SeatType, &view.PriceCents, &view.LockedUntil, &claimed); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat row", err)
		}
		view.Available = seatAvailable(claimed, view.LockedUntil, now)
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read seat rows", err)
	}

	return result, nil
}
