package queries

import (
	"context"
	"time"

	"ticket-booking/internal/pkg/clock"
	"ticket-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type SeatReadStore interface {
	// FindByEventID computes each seat's Available flag against now.
	FindByEventID(ctx context.Context, eventID uuid.UUID, now time.Time) ([]*SeatView, error)
}

// AvailabilityCache fronts the seat read path; a miss falls through to the
// store. Implementations must degrade to a no-op when the cache is down.
type AvailabilityCache interface {
	GetSeats(ctx context.Context, eventID uuid.UUID) ([]*SeatView, bool)
	SetSeats(ctx context.Context, eventID uuid.UUID, seats []*SeatView)
}

type AvailabilityResult struct {
	Available        bool
	UnavailableSeats []uuid.UUID
}

type SeatQueries interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*SeatView, error)
	// CheckAvailability is the advisory pre-check the booking UI uses; the
	// reservation transaction remains the only authority.
	CheckAvailability(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (*AvailabilityResult, error)
}

type seatQueriesImpl struct {
	store SeatReadStore
	cache AvailabilityCache
	clock clock.Clock
}

func NewSeatQueries(store SeatReadStore, cache AvailabilityCache, clock clock.Clock) SeatQueries {
	return &seatQueriesImpl{
		store: store,
		cache: cache,
		clock: clock,
	}
}

func (q *seatQueriesImpl) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*SeatView, error) {
	if seats, ok := q.cache.GetSeats(ctx, eventID); ok {
		return seats, nil
	}

	seats, err := q.store.FindByEventID(ctx, eventID, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}

	q.cache.SetSeats(ctx, eventID, seats)
	return seats, nil
}

func (q *seatQueriesImpl) CheckAvailability(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (*AvailabilityResult, error) {
	seats, err := q.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*SeatView, len(seats))
	for _, s := range seats {
		byID[s.ID] = s
	}

	var unavailable []uuid.UUID
	for _, id := range seatIDs {
		s, ok := byID[id]
		if !ok || !s.Available {
			unavailable = append(unavailable, id)
		}
	}

	return &AvailabilityResult{
		Available:        len(unavailable) == 0,
		UnavailableSeats: unavailable,
	}, nil
}
