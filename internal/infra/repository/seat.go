package repository

import (
	"context"
	"time"

	"ticket-booking/internal/domain/seat"
	"ticket-booking/internal/infra"
	"ticket-booking/internal/infra/db"

	"github.com/google/uuid"
)

type SeatRepository struct {
	db db.DBTX
}

func NewSeatRepository(dbtx db.DBTX) *SeatRepository {
	return &SeatRepository{db: dbtx}
}

// Seats are locked in id order so concurrent reservations over overlapping
// sets cannot deadlock each other. The claimed flag comes from booked_seats,
// which is the authoritative record of a sold seat.
const lockSeatsForUpdateQuery = `
SELECT s.id, s.event_id, s.seat_number, s.seat_type, s.price_cents, s.locked_until,
       EXISTS (SELECT 1 FROM booked_seats bs WHERE bs.seat_id = s.id) AS claimed
FROM seats s
WHERE s.id = ANY($1)
ORDER BY s.id
FOR UPDATE OF s
`

func (r *SeatRepository) LockForUpdate(ctx context.Context, seatIDs []uuid.UUID) ([]*seat.Seat, error) {
	rows, err := r.db.Query(ctx, lockSeatsForUpdateQuery, seatIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock seats for update", err)
	}
	defer rows.Close()

	var seats []*seat.Seat
	for rows.Next() {
		var (
			id, eventID uuid.UUID
			seatNumber  string
			seatType    string
			priceCents  int64
			lockedUntil *time.Time
			claimed     bool
		)
		if err := rows.Scan(&id, &eventID, &seatNumber, &seatType, &priceCents, &lockedUntil, &claimed); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat row", err)
		}

		entity, err := seat.ReconstructSeat(id, eventID, seatNumber, seat.Type(seatType), priceCents, lockedUntil, claimed)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to reconstruct seat", err)
		}
		seats = append(seats, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read seat rows", err)
	}

	return seats, nil
}

func (r *SeatRepository) UpdateLock(ctx context.Context, seatIDs []uuid.UUID, until time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE seats SET locked_until = $2 WHERE id = ANY($1)`,
		seatIDs, until,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update seat locks", err)
	}
	return nil
}

func (r *SeatRepository) ClearLock(ctx context.Context, seatIDs []uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE seats SET locked_until = NULL WHERE id = ANY($1)`,
		seatIDs,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to clear seat locks", err)
	}
	return nil
}
