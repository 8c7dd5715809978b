package payment

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownProvider = errors.New("unknown payment provider")

// ChargeRequest asks a gateway to collect a fee. Amount is in the currency's
// smallest subunit (paise, cents). Reference carries the appointment ID so a
// later status check can be tied back to the record it pays for.
type ChargeRequest struct {
	Amount    int64
	Currency  string
	Reference string
	ReturnURL string
}

// ChargeHandle identifies a charge at the gateway. CheckoutURL is empty for
// gateways whose checkout happens client-side against the order ID.
type ChargeHandle struct {
	Provider    string `json:"provider"`
	ID          string `json:"id"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// Status is the settled state of a charge.
type Status struct {
	Paid      bool
	Reference string
}

// Gateway is an opaque external payment processor. Implementations talk to
// the provider's API; the booking workflow only ever sees these two calls.
type Gateway interface {
	Name() string
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeHandle, error)
	FetchStatus(ctx context.Context, chargeID string) (*Status, error)
}

// Registry resolves gateways by provider name.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Name()] = g
	}
	return r
}

func (r *Registry) Get(name string) (Gateway, error) {
	g, ok := r.gateways[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return g, nil
}
