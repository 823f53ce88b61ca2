//go:build unit

package cache_test

import (
	"context"
	"testing"
	"time"

	"ticket-booking/internal/infra/cache"
	"ticket-booking/internal/pkg/config"
	"ticket-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	t.Parallel()

	t.Run("no address disables the cache", func(t *testing.T) {
		t.Parallel()
		client := cache.NewRedisClient(config.RedisConfig{Addr: ""})
		assert.Nil(t, client)
	})

	t.Run("unreachable redis keeps the client for later recovery", func(t *testing.T) {
		t.Parallel()
		// 接続拒否が即座に返るポート
		client := cache.NewRedisClient(config.RedisConfig{Addr: "127.0.0.1:1"})
		require.NotNil(t, client)
	})
}

func TestAvailabilityCacheDegradation(t *testing.T) {
	t.Parallel()

	cfg := config.RedisConfig{CacheTTL: 30 * time.Second}
	eventID := uuid.New()
	seats := []*queries.SeatView{{ID: uuid.New(), SeatNumber: "A1", Available: true}}

	t.Run("nil client passes every call through", func(t *testing.T) {
		t.Parallel()
		c := cache.NewAvailabilityCache(nil, cfg)

		c.SetSeats(context.Background(), eventID, seats)
		got, ok := c.GetSeats(context.Background(), eventID)
		assert.False(t, ok)
		assert.Nil(t, got)
		assert.NoError(t, c.Invalidate(context.Background(), eventID))
	})

	t.Run("per-call errors read as a miss", func(t *testing.T) {
		t.Parallel()
		dead := config.RedisConfig{Addr: "127.0.0.1:1", CacheTTL: 30 * time.Second}
		c := cache.NewAvailabilityCache(cache.NewRedisClient(dead), dead)

		c.SetSeats(context.Background(), eventID, seats)
		got, ok := c.GetSeats(context.Background(), eventID)
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}
