package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

const ProviderRazorpay = "razorpay"

type razorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway creates a Gateway backed by the Razorpay orders API.
func NewRazorpayGateway(keyID, keySecret string) Gateway {
	return &razorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

func (g *razorpayGateway) Name() string {
	return ProviderRazorpay
}

func (g *razorpayGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeHandle, error) {
	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Reference,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	return &ChargeHandle{
		Provider: ProviderRazorpay,
		ID:       orderID,
	}, nil
}

func (g *razorpayGateway) FetchStatus(ctx context.Context, chargeID string) (*Status, error) {
	order, err := g.client.Order.Fetch(chargeID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch razorpay order: %w", err)
	}

	status, _ := order["status"].(string)
	receipt, _ := order["receipt"].(string)

	return &Status{
		Paid:      status == "paid",
		Reference: receipt,
	}, nil
}
