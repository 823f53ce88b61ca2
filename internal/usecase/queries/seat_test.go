//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"ticket-booking/internal/pkg/clock"
	"ticket-booking/internal/usecase/queries"
	"ticket-booking/tests/common/builder"
	queriesmock "ticket-booking/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeCache is an in-memory stand-in for the Redis availability cache.
type fakeCache struct {
	seats map[uuid.UUID][]*queries.SeatView
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{seats: make(map[uuid.UUID][]*queries.SeatView)}
}

func (c *fakeCache) GetSeats(_ context.Context, eventID uuid.UUID) ([]*queries.SeatView, bool) {
	s, ok := c.seats[eventID]
	return s, ok
}

func (c *fakeCache) SetSeats(_ context.Context, eventID uuid.UUID, seats []*queries.SeatView) {
	c.seats[eventID] = seats
	c.sets++
}

func newSeatQueriesFixture(t *testing.T) (*queriesmock.MockSeatReadStore, *fakeCache, *clock.MockClock, queries.SeatQueries) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockSeatReadStore(ctrl)
	cache := newFakeCache()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	return store, cache, clk, queries.NewSeatQueries(store, cache, clk)
}

func TestListByEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss reads the store and fills the cache", func(t *testing.T) {
		store, cache, clk, sut := newSeatQueriesFixture(t)
		eventID := uuid.New()
		views := []*queries.SeatView{builder.NewSeatBuilder().BuildView(true)}

		store.EXPECT().FindByEventID(gomock.Any(), eventID, clk.Now()).Return(views, nil)

		got, err := sut.ListByEvent(ctx, eventID)
		require.NoError(t, err)
		assert.Equal(t, views, got)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		_, cache, _, sut := newSeatQueriesFixture(t)
		eventID := uuid.New()
		views := []*queries.SeatView{builder.NewSeatBuilder().BuildView(true)}
		cache.seats[eventID] = views

		got, err := sut.ListByEvent(ctx, eventID)
		require.NoError(t, err)
		assert.Equal(t, views, got)
		assert.Zero(t, cache.sets)
	})
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("all requested seats available", func(t *testing.T) {
		store, _, clk, sut := newSeatQueriesFixture(t)
		eventID := uuid.New()
		a := builder.NewSeatBuilder().BuildView(true)
		b := builder.NewSeatBuilder().BuildView(true)

		store.EXPECT().FindByEventID(gomock.Any(), eventID, clk.Now()).
			Return([]*queries.SeatView{a, b}, nil)

		result, err := sut.CheckAvailability(ctx, eventID, []uuid.UUID{a.ID, b.ID})
		require.NoError(t, err)
		assert.True(t, result.Available)
		assert.Empty(t, result.UnavailableSeats)
	})

	t.Run("claimed seat reported unavailable", func(t *testing.T) {
		store, _, _, sut := newSeatQueriesFixture(t)
		eventID := uuid.New()
		a := builder.NewSeatBuilder().BuildView(true)
		taken := builder.NewSeatBuilder().BuildView(false)

		store.EXPECT().FindByEventID(gomock.Any(), eventID, gomock.Any()).
			Return([]*queries.SeatView{a, taken}, nil)

		result, err := sut.CheckAvailability(ctx, eventID, []uuid.UUID{a.ID, taken.ID})
		require.NoError(t, err)
		assert.False(t, result.Available)
		assert.Equal(t, []uuid.UUID{taken.ID}, result.UnavailableSeats)
	})

	t.Run("seat missing from the event counts as unavailable", func(t *testing.T) {
		store, _, _, sut := newSeatQueriesFixture(t)
		eventID := uuid.New()
		unknown := uuid.New()

		store.EXPECT().FindByEventID(gomock.Any(), eventID, gomock.Any()).
			Return(nil, nil)

		result, err := sut.CheckAvailability(ctx, eventID, []uuid.UUID{unknown})
		require.NoError(t, err)
		assert.False(t, result.Available)
		assert.Equal(t, []uuid.UUID{unknown}, result.UnavailableSeats)
	})
}
