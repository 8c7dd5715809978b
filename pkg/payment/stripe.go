package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

const ProviderStripe = "stripe"

type stripeGateway struct {
	api         *client.API
	productName string
}

// NewStripeGateway creates a Gateway backed by Stripe checkout sessions.
func NewStripeGateway(secretKey string) Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &stripeGateway{
		api:         api,
		productName: "Appointment Fees",
	}
}

func (g *stripeGateway) Name() string {
	return ProviderStripe
}

func (g *stripeGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeHandle, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.Reference),
		SuccessURL:        stripe.String(fmt.Sprintf("%s/verify?success=true&appointmentId=%s", req.ReturnURL, req.Reference)),
		CancelURL:         stripe.String(fmt.Sprintf("%s/verify?success=false&appointmentId=%s", req.ReturnURL, req.Reference)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(g.productName),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe checkout session: %w", err)
	}

	return &ChargeHandle{
		Provider:    ProviderStripe,
		ID:          session.ID,
		CheckoutURL: session.URL,
	}, nil
}

func (g *stripeGateway) FetchStatus(ctx context.Context, chargeID string) (*Status, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.Get(chargeID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stripe checkout session: %w", err)
	}

	return &Status{
		Paid:      session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Reference: session.ClientReferenceID,
	}, nil
}
