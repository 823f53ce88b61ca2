//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING",
		userID, email)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestEvent(t *testing.T, db DBLike, name string, startsAt time.Time) uuid.UUID {
	t.Helper()

	eventID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO events (id, name, starts_at) VALUES ($1, $2, $3)",
		eventID, name, startsAt)
	require.NoError(t, err)

	return eventID
}

type SeatSpec struct {
	SeatNumber string
	SeatType   string
	PriceCents int64
}

// inserts seats for an event and returns their ids keyed by seat number
func CreateTestSeats(t *testing.T, db DBLike, eventID uuid.UUID, specs []SeatSpec) map[string]uuid.UUID {
	t.Helper()

	ctx := context.Background()
	ids := make(map[string]uuid.UUID, len(specs))
	for _, spec := range specs {
		seatID := uuid.New()
		_, err := db.Exec(ctx,
			"INSERT INTO seats (id, event_id, seat_number, seat_type, price_cents) VALUES ($1, $2, $3, $4, $5)",
			seatID, eventID, spec.SeatNumber, spec.SeatType, spec.PriceCents)
		require.NoError(t, err)
		ids[spec.SeatNumber] = seatID
	}

	return ids
}

// DefaultSeatSpecs is a small venue layout used by most scenarios.
func DefaultSeatSpecs() []SeatSpec {
	return []SeatSpec{
		{SeatNumber: "A1", SeatType: "REGULAR", PriceCents: 2500},
		{SeatNumber: "A2", SeatType: "REGULAR", PriceCents: 2500},
		{SeatNumber: "A3", SeatType: "REGULAR", PriceCents: 2500},
		{SeatNumber: "V1", SeatType: "VIP", PriceCents: 8000},
		{SeatNumber: "V2", SeatType: "VIP", PriceCents: 8000},
	}
}

// SeedReferenceData is a no-op hook kept for suite symmetry; every scenario
// creates its own users/events/seats so fixtures never leak across tests.
func SeedReferenceData(pool *pgxpool.Pool) error {
	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
