package repository

import (
	"context"

	"ticket-booking/internal/domain/booking"
	"ticket-booking/internal/domain/payment"
	"ticket-booking/internal/infra"
	"ticket-booking/internal/infra/db"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

// booking_id is unique: redelivered notifications land on the same row
// instead of accumulating duplicates.
func (r *PaymentRepository) Upsert(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO payments (id, booking_id, user_id, event_id, amount_cents, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (booking_id)
		 DO UPDATE SET status = EXCLUDED.status, amount_cents = EXCLUDED.amount_cents`,
		p.ID(), p.BookingID(), p.UserID(), p.EventID(), p.AmountCents(), p.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert payment", err)
	}
	return nil
}

func (r *PaymentRepository) UpdateStatusByBooking(ctx context.Context, bookingID uuid.UUID, from, to booking.Status) error {
	_, err := r.db.Exec(ctx,
		`UPDATE payments SET status = $3 WHERE booking_id = $1 AND status = $2`,
		bookingID, from.String(), to.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment status", err)
	}
	return nil
}
