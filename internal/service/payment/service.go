package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	appointmentsvc "github.com/medibook/booking-api/internal/service/appointment"
	"github.com/medibook/booking-api/pkg/apperror"
	"github.com/medibook/booking-api/pkg/circuitbreaker"
	"github.com/medibook/booking-api/pkg/metrics"
	"github.com/medibook/booking-api/pkg/payment"
)

// Service collects appointment fees through pluggable gateways. Gateway
// calls go through a circuit breaker so a dead provider fails fast
// instead of tying up request handlers.
type Service struct {
	appointments *appointmentsvc.Service
	registry     *payment.Registry
	breaker      *circuitbreaker.CircuitBreaker
	metrics      *metrics.Metrics
	currency     string
	returnURL    string
}

func NewService(
	appointments *appointmentsvc.Service,
	registry *payment.Registry,
	m *metrics.Metrics,
	currency, returnURL string,
) *Service {
	return &Service{
		appointments: appointments,
		registry:     registry,
		breaker:      circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{Name: "payment-gateway"}),
		metrics:      m,
		currency:     currency,
		returnURL:    returnURL,
	}
}

// CreateOrder opens a charge at the named provider for an appointment's
// fee. The fee is converted to the currency's smallest subunit.
func (s *Service) CreateOrder(ctx context.Context, userID, appointmentID uuid.UUID, provider string) (*payment.ChargeHandle, error) {
	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if apt.UserID != userID {
		return nil, apperror.Unauthorized("appointment belongs to another user")
	}
	if apt.Cancelled {
		return nil, apperror.Conflict("cannot pay for a cancelled appointment", nil)
	}
	if apt.Payment {
		return nil, apperror.Conflict("appointment already paid", nil)
	}

	gateway, err := s.registry.Get(provider)
	if errors.Is(err, payment.ErrUnknownProvider) {
		return nil, apperror.Invalid("unknown payment provider", err)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	req := payment.ChargeRequest{
		Amount:    apt.Amount * 100,
		Currency:  s.currency,
		Reference: apt.ID.String(),
		ReturnURL: s.returnURL,
	}

	var handle *payment.ChargeHandle
	err = s.breaker.Execute(func() error {
		var chargeErr error
		handle, chargeErr = gateway.CreateCharge(ctx, req)
		return chargeErr
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.PaymentOrders.WithLabelValues(provider, "error").Inc()
		}
		if errors.Is(err, circuitbreaker.ErrOpen) {
			return nil, apperror.Unavailable("payment provider temporarily unavailable")
		}
		return nil, apperror.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.PaymentOrders.WithLabelValues(provider, "created").Inc()
	}
	return handle, nil
}

// Verify checks a charge's settled state at the provider and marks the
// appointment paid when the charge went through.
func (s *Service) Verify(ctx context.Context, provider, chargeID string) (*model.Appointment, error) {
	gateway, err := s.registry.Get(provider)
	if errors.Is(err, payment.ErrUnknownProvider) {
		return nil, apperror.Invalid("unknown payment provider", err)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var status *payment.Status
	err = s.breaker.Execute(func() error {
		var fetchErr error
		status, fetchErr = gateway.FetchStatus(ctx, chargeID)
		return fetchErr
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrOpen) {
			return nil, apperror.Unavailable("payment provider temporarily unavailable")
		}
		return nil, apperror.Internal(err)
	}

	if !status.Paid {
		if s.metrics != nil {
			s.metrics.PaymentVerified.WithLabelValues(provider, "unpaid").Inc()
		}
		return nil, apperror.Conflict("payment not completed", nil)
	}

	appointmentID, err := uuid.Parse(status.Reference)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := s.appointments.MarkPaid(ctx, appointmentID); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PaymentVerified.WithLabelValues(provider, "paid").Inc()
	}

	return s.appointments.Get(ctx, appointmentID)
}
