package admin_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	adminsvc "github.com/medibook/booking-api/internal/service/admin"
	"github.com/medibook/booking-api/pkg/apperror"
	"github.com/medibook/booking-api/pkg/media"
	"github.com/medibook/booking-api/pkg/security"
)

type fakeMedia struct {
	uploads []string
}

func (m *fakeMedia) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	m.uploads = append(m.uploads, name)
	return "http://media.local/" + name, nil
}

func newService(t *testing.T) (*adminsvc.Service, *memory.Store, *fakeMedia) {
	t.Helper()
	store := memory.NewStore()
	mediaStore := &fakeMedia{}
	svc := adminsvc.NewService(
		store.Doctors(), store.Users(), store.Appointments(),
		security.NewBcryptHasher(4), mediaStore,
	)
	return svc, store, mediaStore
}

var _ media.Store = (*fakeMedia)(nil)

func addDoctorRequest() *model.AddDoctorRequest {
	return &model.AddDoctorRequest{
		Name:       "Dr. Mehta",
		Email:      "mehta@example.com",
		Password:   "doctor-password",
		Speciality: "Dermatology",
		Degree:     "MBBS",
		Experience: "4 Years",
		About:      "Skin specialist",
		Fees:       100,
	}
}

func TestAddDoctor(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	doctor, err := svc.AddDoctor(ctx, addDoctorRequest(), nil, 0, "")
	require.NoError(t, err)

	assert.True(t, doctor.Available)
	assert.Empty(t, doctor.PasswordHash)

	stored, err := store.Doctors().GetByEmail(ctx, "mehta@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "doctor-password", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestAddDoctorWithImage(t *testing.T) {
	svc, _, mediaStore := newService(t)

	image := strings.NewReader("png-bytes")
	doctor, err := svc.AddDoctor(context.Background(), addDoctorRequest(), image, int64(image.Len()), "image/png")
	require.NoError(t, err)

	require.Len(t, mediaStore.uploads, 1)
	assert.Contains(t, doctor.Image, "http://media.local/doctors/")
}

func TestAddDoctorDuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddDoctor(ctx, addDoctorRequest(), nil, 0, "")
	require.NoError(t, err)

	_, err = svc.AddDoctor(ctx, addDoctorRequest(), nil, 0, "")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestListDoctorsStripsCredentials(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddDoctor(ctx, addDoctorRequest(), nil, 0, "")
	require.NoError(t, err)

	doctors, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Empty(t, doctors[0].PasswordHash)
}

func TestDashboard(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	doctor, err := svc.AddDoctor(ctx, addDoctorRequest(), nil, 0, "")
	require.NoError(t, err)

	user := &model.User{Name: "Asha Rao", Email: "asha@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))

	for i := 0; i < 7; i++ {
		require.NoError(t, store.Appointments().Create(ctx, &model.Appointment{
			UserID:   user.ID,
			DoctorID: doctor.ID,
			Amount:   100,
			BookedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, dashboard.Doctors)
	assert.Equal(t, 1, dashboard.Patients)
	assert.Equal(t, 7, dashboard.Appointments)
	assert.Len(t, dashboard.LatestAppointments, 5)
	assert.NotEqual(t, uuid.Nil, dashboard.LatestAppointments[0].ID)
}
