package provider

import (
	"ticket-booking/internal/domain/payment"
	"ticket-booking/internal/pkg/errs"
)

var (
	ErrUnknownProvider  = errs.New("unknown payment provider")
	ErrBadSignature     = errs.New("signature verification failed")
	ErrMalformedPayload = errs.New("malformed notification payload")
)

// Adapter translates one payment provider's webhook dialect into the
// provider-agnostic envelope. VerifySignature must be called on the raw body
// before Parse — nothing in the payload is trusted until then.
type Adapter interface {
	Name() string
	VerifySignature(body []byte, signature, timestamp string) error
	Parse(body []byte) (*payment.Envelope, error)
}

// Registry is the closed set of providers this deployment accepts.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Name()] = a
	}
	return &Registry{adapters: m}
}

func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return a, nil
}
