package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math"

	"ticket-booking/internal/domain/payment"
	"ticket-booking/internal/pkg/config"
	"ticket-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const CashfreeName = "cashfree"

// Cashfree signs webhooks with base64(HMAC-SHA256(timestamp + rawBody))
// using the merchant's shared secret.
type CashfreeAdapter struct {
	secret []byte
}

func NewCashfreeAdapter(cfg config.WebhookConfig) *CashfreeAdapter {
	return &CashfreeAdapter{secret: []byte(cfg.Secret)}
}

func (a *CashfreeAdapter) Name() string {
	return CashfreeName
}

func (a *CashfreeAdapter) VerifySignature(body []byte, signature, timestamp string) error {
	if signature == "" || timestamp == "" {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(timestamp))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

// cashfreePayload is the subset of Cashfree's webhook body the reconciler
// needs; the order id carries our booking id.
type cashfreePayload struct {
	Data struct {
		Order struct {
			OrderID     string  `json:"order_id"`
			OrderAmount float64 `json:"order_amount"`
		} `json:"order"`
		CustomerDetails struct {
			CustomerID string `json:"customer_id"`
		} `json:"customer_details"`
	} `json:"data"`
	EventTime string `json:"event_time"`
	Type      string `json:"type"`
}

func (a *CashfreeAdapter) Parse(body []byte) (*payment.Envelope, error) {
	var p cashfreePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errs.Mark(err, ErrMalformedPayload)
	}

	bookingID, err := uuid.Parse(p.Data.Order.OrderID)
	if err != nil {
		return nil, errs.Mark(err, ErrMalformedPayload)
	}
	payerID, err := uuid.Parse(p.Data.CustomerDetails.CustomerID)
	if err != nil {
		return nil, errs.Mark(err, ErrMalformedPayload)
	}
	if p.Type == "" {
		return nil, ErrMalformedPayload
	}

	return &payment.Envelope{
		BookingID:   bookingID,
		EventType:   p.Type,
		AmountCents: int64(math.Round(p.Data.Order.OrderAmount * 100)),
		PayerID:     payerID,
	}, nil
}
