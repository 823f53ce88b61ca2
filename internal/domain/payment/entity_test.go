//go:build unit

package payment_test

import (
	"testing"

	"ticket-booking/internal/domain/booking"
	"ticket-booking/internal/domain/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalStatusForEvent(t *testing.T) {
	cases := []struct {
		eventType string
		want      booking.Status
		errIs     error
	}{
		{eventType: payment.EventPaymentSuccess, want: booking.StatusSuccess},
		{eventType: payment.EventPaymentFailed, want: booking.StatusFailed},
		{eventType: payment.EventPaymentUserDropped, want: booking.StatusFailed},
		{eventType: "PAYMENT_REFUND_WEBHOOK", errIs: payment.ErrUnknownEventType},
		{eventType: "", errIs: payment.ErrUnknownEventType},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			got, err := payment.TerminalStatusForEvent(tc.eventType)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewPayment(t *testing.T) {
	t.Run("terminal status accepted", func(t *testing.T) {
		p, err := payment.NewPayment(uuid.New(), uuid.New(), uuid.New(), 5000, booking.StatusSuccess)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.ID())
		assert.Equal(t, booking.StatusSuccess, p.Status())
	})

	t.Run("pending status rejected", func(t *testing.T) {
		_, err := payment.NewPayment(uuid.New(), uuid.New(), uuid.New(), 5000, booking.StatusPending)
		assert.ErrorIs(t, err, payment.ErrNonTerminal)
	})
}
