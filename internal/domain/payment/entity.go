package payment

import (
	"errors"

	"ticket-booking/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrUnknownEventType = errors.New("unknown notification event type")
	ErrNonTerminal      = errors.New("payment status must be terminal")
)

// Provider event types recognized by the reconciler. The set is closed:
// anything else is rejected before any state is touched.
const (
	EventPaymentSuccess     = "PAYMENT_SUCCESS_WEBHOOK"
	EventPaymentFailed      = "PAYMENT_FAILED_WEBHOOK"
	EventPaymentUserDropped = "PAYMENT_USER_DROPPED_WEBHOOK"
)

var eventStatusMap = map[string]booking.Status{
	EventPaymentSuccess:     booking.StatusSuccess,
	EventPaymentFailed:      booking.StatusFailed,
	EventPaymentUserDropped: booking.StatusFailed,
}

// TerminalStatusForEvent maps a provider event type onto the booking status
// it finalizes.
func TerminalStatusForEvent(eventType string) (booking.Status, error) {
	st, ok := eventStatusMap[eventType]
	if !ok {
		return "", ErrUnknownEventType
	}
	return st, nil
}

// Envelope is the provider-agnostic shape of an inbound payment notification,
// produced by a provider adapter after signature verification.
type Envelope struct {
	BookingID   uuid.UUID
	EventType   string
	AmountCents int64
	PayerID     uuid.UUID
}

// Payment mirrors the terminal outcome of its booking; at most one row exists
// per booking (upsert semantics in the store).
type Payment struct {
	id          uuid.UUID
	bookingID   uuid.UUID
	userID      uuid.UUID
	eventID     uuid.UUID
	amountCents int64
	status      booking.Status
}

func NewPayment(bookingID, userID, eventID uuid.UUID, amountCents int64, status booking.Status) (*Payment, error) {
	if !status.IsTerminal() {
		return nil, ErrNonTerminal
	}
	return &Payment{
		id:          uuid.New(),
		bookingID:   bookingID,
		userID:      userID,
		eventID:     eventID,
		amountCents: amountCents,
		status:      status,
	}, nil
}

func (p *Payment) ID() uuid.UUID          { return p.id }
func (p *Payment) BookingID() uuid.UUID   { return p.bookingID }
func (p *Payment) UserID() uuid.UUID      { return p.userID }
func (p *Payment) EventID() uuid.UUID     { return p.eventID }
func (p *Payment) AmountCents() int64     { return p.amountCents }
func (p *Payment) Status() booking.Status { return p.status }
