package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"ticket-booking/internal/pkg/config"
	"ticket-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const seatKeyPrefix = "seats:"

// AvailabilityCache keeps per-event seat views in Redis with a short TTL.
// It is advisory only: the reservation transaction never consults it, so a
// stale or unavailable cache can cost a round trip but never correctness.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient returns nil only when no address is configured. A failed
// startup ping is logged but keeps the client: per-call errors fall back to
// the store, and the cache recovers once Redis comes back.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		slog.Info("no redis address configured, seat availability cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable at startup, seat availability cache degraded", "addr", cfg.Addr, "error", err.Error())
	}
	return client
}

func NewAvailabilityCache(client *redis.Client, cfg config.RedisConfig) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    cfg.CacheTTL,
	}
}

func (c *AvailabilityCache) GetSeats(ctx context.Context, eventID uuid.UUID) ([]*queries.SeatView, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, seatKeyPrefix+eventID.String()).Bytes()
	if err != nil {
		return nil, false
	}

	var seats []*queries.SeatView
	if err := json.Unmarshal(data, &seats); err != nil {
		slog.Warn("discarding corrupt seat cache entry", "event_id", eventID, "error", err.Error())
		return nil, false
	}
	return seats, true
}

func (c *AvailabilityCache) SetSeats(ctx context.Context, eventID uuid.UUID, seats []*queries.SeatView) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(seats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, seatKeyPrefix+eventID.String(), data, c.ttl).Err(); err != nil {
		slog.Warn("failed to write seat cache entry", "event_id", eventID, "error", err.Error())
	}
}

// Invalidate drops the cached view after a reservation or reclaim commits.
func (c *AvailabilityCache) Invalidate(ctx context.Context, eventID uuid.UUID) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, seatKeyPrefix+eventID.String()).Err()
}
