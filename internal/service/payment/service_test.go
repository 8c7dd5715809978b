package payment_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	appointmentsvc "github.com/medibook/booking-api/internal/service/appointment"
	"github.com/medibook/booking-api/internal/service/ledger"
	paymentsvc "github.com/medibook/booking-api/internal/service/payment"
	"github.com/medibook/booking-api/pkg/apperror"
	"github.com/medibook/booking-api/pkg/logger"
	"github.com/medibook/booking-api/pkg/payment"
)

// fakeGateway records the last charge request and plays back a canned
// status.
type fakeGateway struct {
	name       string
	lastCharge payment.ChargeRequest
	chargeErr  error
	status     payment.Status
	statusErr  error
}

func (g *fakeGateway) Name() string { return g.name }

func (g *fakeGateway) CreateCharge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeHandle, error) {
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	g.lastCharge = req
	return &payment.ChargeHandle{Provider: g.name, ID: "charge-1"}, nil
}

func (g *fakeGateway) FetchStatus(ctx context.Context, chargeID string) (*payment.Status, error) {
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	status := g.status
	return &status, nil
}

type fixture struct {
	svc          *paymentsvc.Service
	appointments *appointmentsvc.Service
	gateway      *fakeGateway
	userID       uuid.UUID
	apt          *model.Appointment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	ledgerSvc := ledger.NewService(store.Slots(), nil)
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	appointments := appointmentsvc.NewService(
		store.Appointments(), store.Doctors(), store.Users(),
		ledgerSvc, nil, nil, log,
	)

	user := &model.User{Name: "Asha Rao", Email: "asha@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))
	doctor := &model.Doctor{Name: "Dr. Mehta", Email: "mehta@example.com", Fees: 100, Available: true}
	require.NoError(t, store.Doctors().Create(ctx, doctor))

	apt, err := appointments.Book(ctx, user.ID, doctor.ID, "2026-09-01", "10:00")
	require.NoError(t, err)

	gateway := &fakeGateway{name: "razorpay"}
	svc := paymentsvc.NewService(appointments, payment.NewRegistry(gateway), nil, "INR", "http://localhost:5173")

	return &fixture{svc: svc, appointments: appointments, gateway: gateway, userID: user.ID, apt: apt}
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)

	handle, err := f.svc.CreateOrder(context.Background(), f.userID, f.apt.ID, "razorpay")
	require.NoError(t, err)

	assert.Equal(t, "razorpay", handle.Provider)
	assert.Equal(t, "charge-1", handle.ID)

	// Fee converted to subunits, reference carries the appointment.
	assert.Equal(t, int64(10000), f.gateway.lastCharge.Amount)
	assert.Equal(t, "INR", f.gateway.lastCharge.Currency)
	assert.Equal(t, f.apt.ID.String(), f.gateway.lastCharge.Reference)
}

func TestCreateOrderWrongUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), f.apt.ID, "razorpay")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestCreateOrderCancelledAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.appointments.Cancel(ctx, f.userID, f.apt.ID, appointmentsvc.ActorUser))

	_, err := f.svc.CreateOrder(ctx, f.userID, f.apt.ID, "razorpay")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestCreateOrderAlreadyPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.appointments.MarkPaid(ctx, f.apt.ID))

	_, err := f.svc.CreateOrder(ctx, f.userID, f.apt.ID, "razorpay")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestCreateOrderUnknownProvider(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), f.userID, f.apt.ID, "paypal")
	assert.True(t, apperror.IsKind(err, apperror.KindInvalid))
}

func TestVerifyMarksPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.status = payment.Status{Paid: true, Reference: f.apt.ID.String()}

	apt, err := f.svc.Verify(ctx, "razorpay", "charge-1")
	require.NoError(t, err)
	assert.True(t, apt.Payment)
}

func TestVerifyUnpaidCharge(t *testing.T) {
	f := newFixture(t)

	f.gateway.status = payment.Status{Paid: false, Reference: f.apt.ID.String()}

	_, err := f.svc.Verify(context.Background(), "razorpay", "charge-1")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	apt, err := f.appointments.Get(context.Background(), f.apt.ID)
	require.NoError(t, err)
	assert.False(t, apt.Payment)
}

func TestGatewayFailureIsInternal(t *testing.T) {
	f := newFixture(t)

	f.gateway.chargeErr = errors.New("gateway down")

	_, err := f.svc.CreateOrder(context.Background(), f.userID, f.apt.ID, "razorpay")
	assert.True(t, apperror.IsKind(err, apperror.KindInternal))
}
