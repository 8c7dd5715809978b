package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	"github.com/medibook/booking-api/internal/service/ledger"
	"github.com/medibook/booking-api/pkg/apperror"
)

func newLedger() (*ledger.Service, *memory.Store) {
	store := memory.NewStore()
	return ledger.NewService(store.Slots(), nil), store
}

func TestValidateSlotKey(t *testing.T) {
	assert.NoError(t, ledger.ValidateSlotKey("2026-09-01", "10:00"))

	err := ledger.ValidateSlotKey("01-09-2026", "10:00")
	assert.True(t, apperror.IsKind(err, apperror.KindInvalid))

	err = ledger.ValidateSlotKey("2026-09-01", "10:00:00")
	assert.True(t, apperror.IsKind(err, apperror.KindInvalid))
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	svc, _ := newLedger()
	ctx := context.Background()
	doctorID := uuid.New()

	free, err := svc.IsFree(ctx, doctorID, "2026-09-01", "10:00")
	require.NoError(t, err)
	assert.True(t, free)

	require.NoError(t, svc.Reserve(ctx, doctorID, "2026-09-01", "10:00"))

	free, err = svc.IsFree(ctx, doctorID, "2026-09-01", "10:00")
	require.NoError(t, err)
	assert.False(t, free)

	require.NoError(t, svc.Release(ctx, doctorID, "2026-09-01", "10:00"))

	free, err = svc.IsFree(ctx, doctorID, "2026-09-01", "10:00")
	require.NoError(t, err)
	assert.True(t, free)
}

func TestReserveConflict(t *testing.T) {
	svc, _ := newLedger()
	ctx := context.Background()
	doctorID := uuid.New()

	require.NoError(t, svc.Reserve(ctx, doctorID, "2026-09-01", "10:00"))

	err := svc.Reserve(ctx, doctorID, "2026-09-01", "10:00")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// Same time for a different doctor is an independent slot.
	assert.NoError(t, svc.Reserve(ctx, uuid.New(), "2026-09-01", "10:00"))
}

func TestReleaseIdempotent(t *testing.T) {
	svc, _ := newLedger()
	ctx := context.Background()
	doctorID := uuid.New()

	assert.NoError(t, svc.Release(ctx, doctorID, "2026-09-01", "10:00"))
	assert.NoError(t, svc.Release(ctx, doctorID, "2026-09-01", "10:00"))
}

func TestSlotsBookedProjection(t *testing.T) {
	svc, _ := newLedger()
	ctx := context.Background()
	doctorID := uuid.New()

	require.NoError(t, svc.Reserve(ctx, doctorID, "2026-09-01", "10:00"))
	require.NoError(t, svc.Reserve(ctx, doctorID, "2026-09-01", "11:00"))
	require.NoError(t, svc.Reserve(ctx, doctorID, "2026-09-02", "10:00"))
	require.NoError(t, svc.Reserve(ctx, uuid.New(), "2026-09-01", "10:00"))

	booked, err := svc.SlotsBooked(ctx, doctorID)
	require.NoError(t, err)
	assert.Equal(t, model.SlotsBooked{
		"2026-09-01": {"10:00", "11:00"},
		"2026-09-02": {"10:00"},
	}, booked)
}

func TestReleaseOrphans(t *testing.T) {
	svc, store := newLedger()
	ctx := context.Background()
	doctorID := uuid.New()

	// Unconfirmed reservation, aged past any grace period.
	require.NoError(t, svc.Reserve(ctx, doctorID, "2026-09-01", "10:00"))

	// Confirmed reservation backed by an active appointment.
	require.NoError(t, svc.Reserve(ctx, doctorID, "2026-09-01", "11:00"))
	apt := &model.Appointment{
		UserID:   uuid.New(),
		DoctorID: doctorID,
		SlotDate: "2026-09-01",
		SlotTime: "11:00",
		BookedAt: time.Now(),
	}
	require.NoError(t, store.Appointments().Create(ctx, apt))
	require.NoError(t, svc.Confirm(ctx, doctorID, "2026-09-01", "11:00", apt.ID))

	released, err := svc.ReleaseOrphans(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)

	free, err := svc.IsFree(ctx, doctorID, "2026-09-01", "10:00")
	require.NoError(t, err)
	assert.True(t, free)

	free, err = svc.IsFree(ctx, doctorID, "2026-09-01", "11:00")
	require.NoError(t, err)
	assert.False(t, free)
}

func TestReleaseOrphansReclaimsCancelled(t *testing.T) {
	svc, store := newLedger()
	ctx := context.Background()
	doctorID := uuid.New()

	require.NoError(t, svc.Reserve(ctx, doctorID, "2026-09-01", "10:00"))
	apt := &model.Appointment{
		UserID:    uuid.New(),
		DoctorID:  doctorID,
		SlotDate:  "2026-09-01",
		SlotTime:  "10:00",
		Cancelled: true,
		BookedAt:  time.Now(),
	}
	require.NoError(t, store.Appointments().Create(ctx, apt))
	require.NoError(t, svc.Confirm(ctx, doctorID, "2026-09-01", "10:00", apt.ID))

	released, err := svc.ReleaseOrphans(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)
}

func TestReleaseOrphansRespectsGrace(t *testing.T) {
	svc, _ := newLedger()
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, uuid.New(), "2026-09-01", "10:00"))

	// A fresh reservation is inside the grace period and stays put.
	released, err := svc.ReleaseOrphans(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, released)
}
