package shared

import (
	"context"
	"time"

	"ticket-booking/internal/domain/booking"
	"ticket-booking/internal/domain/payment"
	"ticket-booking/internal/domain/seat"
	"ticket-booking/internal/infra/db"
	"ticket-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrTransactionBegin   = errs.New("failed to begin transaction")
	ErrTransactionCommit  = errs.New("failed to commit transaction")
	ErrMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry on
	// serialization failure. Row locks taken inside fn hold until commit.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Seats() SeatRepository
	Bookings() BookingRepository
	Payments() PaymentRepository
	DB() db.DBTX
}

// BookingSnapshot is the minimal booking state command logic needs for guard
// checks; full views live on the query side.
type BookingSnapshot struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	UserID      uuid.UUID
	AmountCents int64
	Status      booking.Status
	CreatedAt   time.Time
}

// ExpiredPendingBooking is a sweeper candidate: a PENDING booking whose hold
// window has elapsed.
type ExpiredPendingBooking struct {
	ID      uuid.UUID
	EventID uuid.UUID
}

type SeatRepository interface {
	// LockForUpdate reads the given seats with a row-level write-intent lock
	// (SELECT ... FOR UPDATE) including whether a booked-seat row claims each.
	// Missing ids are simply absent from the result.
	LockForUpdate(ctx context.Context, seatIDs []uuid.UUID) ([]*seat.Seat, error)
	// UpdateLock sets locked_until on the given seats.
	UpdateLock(ctx context.Context, seatIDs []uuid.UUID, until time.Time) error
	// ClearLock nulls locked_until on the given seats.
	ClearLock(ctx context.Context, seatIDs []uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	// CreateBookedSeats writes the authoritative seat claims for a booking.
	CreateBookedSeats(ctx context.Context, bookingID uuid.UUID, seatIDs []uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	// UpdateStatus performs a compare-and-set transition; a KindConflict
	// repository error means the booking was not in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to booking.Status) error
	// FindExpiredPending lists PENDING bookings with at least one seat whose
	// locked_until lies before now.
	FindExpiredPending(ctx context.Context, now time.Time) ([]ExpiredPendingBooking, error)
	// DeleteBookedSeats removes a booking's seat claims and returns the freed
	// seat ids.
	DeleteBookedSeats(ctx context.Context, bookingID uuid.UUID) ([]uuid.UUID, error)
}

type PaymentRepository interface {
	// Upsert creates or replaces the single payment row of a booking.
	Upsert(ctx context.Context, p *payment.Payment) error
	// UpdateStatusByBooking transitions an existing payment row if one exists;
	// absence is not an error.
	UpdateStatusByBooking(ctx context.Context, bookingID uuid.UUID, from, to booking.Status) error
}
