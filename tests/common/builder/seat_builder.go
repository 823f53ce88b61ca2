//go:build unit || e2e

package builder

import (
	"time"

	domseat "ticket-booking/internal/domain/seat"
	"ticket-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type SeatBuilder struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	SeatNumber  string
	SeatType    domseat.Type
	PriceCents  int64
	LockedUntil *time.Time
	Claimed     bool
}

func NewSeatBuilder() *SeatBuilder {
	return &SeatBuilder{
		ID:         uuid.New(),
		EventID:    uuid.New(),
		SeatNumber: "A1",
		SeatType:   domseat.TypeRegular,
		PriceCents: 2500,
	}
}

func (s *SeatBuilder) With(mutate func(*SeatBuilder)) *SeatBuilder {
	mutate(s)
	return s
}

func (s *SeatBuilder) WithLockUntil(t time.Time) *SeatBuilder {
	s.LockedUntil = &t
	return s
}

func (s *SeatBuilder) WithClaimed() *SeatBuilder {
	s.Claimed = true
	return s
}

func (s *SeatBuilder) BuildDomain() (*domseat.Seat, error) {
	return domseat.ReconstructSeat(s.ID, s.EventID, s.SeatNumber, s.SeatType, s.PriceCents, s.LockedUntil, s.Claimed)
}

func (s *SeatBuilder) BuildView(available bool) *queries.SeatView {
	return &queries.SeatView{
		ID:          s.ID,
		SeatNumber:  s.SeatNumber,
		SeatType:    s.SeatType.String(),
		PriceCents:  s.PriceCents,
		Available:   available,
		LockedUntil: s.LockedUntil,
	}
}
