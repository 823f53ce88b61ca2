//go:build unit

package readstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeatAvailable(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name        string
		claimed     bool
		lockedUntil *time.Time
		want        bool
	}{
		{"unclaimed and never locked", false, nil, true},
		{"unclaimed with elapsed lock", false, &past, true},
		{"lock expiring exactly now counts as free", false, &now, true},
		{"unclaimed but still held", false, &future, false},
		{"claimed seat is sold regardless of lock", true, nil, false},
		{"claimed with elapsed lock stays sold", true, &past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, seatAvailable(tt.claimed, tt.lockedUntil, now))
		})
	}
}
