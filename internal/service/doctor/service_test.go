package doctor_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	doctorsvc "github.com/medibook/booking-api/internal/service/doctor"
	"github.com/medibook/booking-api/internal/service/ledger"
	"github.com/medibook/booking-api/pkg/apperror"
)

func newService(t *testing.T) (*doctorsvc.Service, *memory.Store, *model.Doctor) {
	t.Helper()

	store := memory.NewStore()
	ledgerSvc := ledger.NewService(store.Slots(), nil)
	svc := doctorsvc.NewService(store.Doctors(), store.Appointments(), ledgerSvc)

	doctor := &model.Doctor{
		Name:         "Dr. Mehta",
		Email:        "mehta@example.com",
		PasswordHash: "hash",
		Speciality:   "Dermatology",
		Fees:         100,
		Available:    true,
	}
	require.NoError(t, store.Doctors().Create(context.Background(), doctor))
	return svc, store, doctor
}

func TestListPublicStripsCredentials(t *testing.T) {
	svc, store, doctor := newService(t)
	ctx := context.Background()

	require.NoError(t, ledger.NewService(store.Slots(), nil).Reserve(ctx, doctor.ID, "2026-09-01", "10:00"))

	doctors, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)

	assert.Empty(t, doctors[0].Email)
	assert.Empty(t, doctors[0].PasswordHash)
	assert.Equal(t, model.SlotsBooked{"2026-09-01": {"10:00"}}, doctors[0].SlotsBooked)
}

func TestListPublicServesFromCache(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	first, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A doctor added behind the cache's back is not visible until it
	// expires or is invalidated by a profile change.
	require.NoError(t, store.Doctors().Create(ctx, &model.Doctor{Name: "Dr. Iyer", Email: "iyer@example.com"}))

	second, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestToggleAvailability(t *testing.T) {
	svc, _, doctor := newService(t)
	ctx := context.Background()

	available, err := svc.ToggleAvailability(ctx, doctor.ID)
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.ToggleAvailability(ctx, doctor.ID)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestUpdateProfile(t *testing.T) {
	svc, store, doctor := newService(t)
	ctx := context.Background()

	fees := int64(250)
	available := false
	require.NoError(t, svc.UpdateProfile(ctx, doctor.ID, &model.UpdateDoctorProfileRequest{
		Fees:      &fees,
		Available: &available,
	}))

	updated, err := store.Doctors().Get(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), updated.Fees)
	assert.False(t, updated.Available)

	badFees := int64(0)
	err = svc.UpdateProfile(ctx, doctor.ID, &model.UpdateDoctorProfileRequest{Fees: &badFees})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalid))
}

func TestDashboardEarnings(t *testing.T) {
	svc, store, doctor := newService(t)
	ctx := context.Background()

	appointments := store.Appointments()
	patientA := uuid.New()
	patientB := uuid.New()

	// Completed, paid, and pending appointments; only the first two earn.
	require.NoError(t, appointments.Create(ctx, &model.Appointment{
		UserID: patientA, DoctorID: doctor.ID, Amount: 100, IsCompleted: true, BookedAt: time.Now(),
	}))
	require.NoError(t, appointments.Create(ctx, &model.Appointment{
		UserID: patientB, DoctorID: doctor.ID, Amount: 150, Payment: true, BookedAt: time.Now(),
	}))
	require.NoError(t, appointments.Create(ctx, &model.Appointment{
		UserID: patientA, DoctorID: doctor.ID, Amount: 200, BookedAt: time.Now(),
	}))

	dashboard, err := svc.Dashboard(ctx, doctor.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(250), dashboard.Earnings)
	assert.Equal(t, 3, dashboard.Appointments)
	assert.Equal(t, 2, dashboard.Patients)
	assert.Len(t, dashboard.LatestAppointments, 3)
}
