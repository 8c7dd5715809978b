package user_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	usersvc "github.com/medibook/booking-api/internal/service/user"
	"github.com/medibook/booking-api/pkg/apperror"
	"github.com/medibook/booking-api/pkg/media"
)

type fakeMedia struct {
	lastName string
}

func (m *fakeMedia) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	m.lastName = name
	return "http://media.local/" + name, nil
}

var _ media.Store = (*fakeMedia)(nil)

func newService(t *testing.T) (*usersvc.Service, *memory.Store, *model.User, *fakeMedia) {
	t.Helper()
	store := memory.NewStore()
	mediaStore := &fakeMedia{}
	svc := usersvc.NewService(store.Users(), mediaStore)

	user := &model.User{Name: "Asha Rao", Email: "asha@example.com"}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return svc, store, user, mediaStore
}

func TestGetProfile(t *testing.T) {
	svc, _, user, _ := newService(t)

	got, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.Name)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpdateProfile(t *testing.T) {
	svc, store, user, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.UpdateProfile(ctx, user.ID, &model.UpdateProfileRequest{
		Name:    "Asha R",
		Phone:   "9999999999",
		Address: model.Address{Line1: "12 Lake Road"},
		Gender:  "female",
		DOB:     "1990-04-02",
	}))

	updated, err := store.Users().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha R", updated.Name)
	assert.Equal(t, "9999999999", updated.Phone)
	assert.Equal(t, "12 Lake Road", updated.Address.Line1)
	// Email is not part of the profile update surface.
	assert.Equal(t, "asha@example.com", updated.Email)
}

func TestUploadImage(t *testing.T) {
	svc, store, user, mediaStore := newService(t)
	ctx := context.Background()

	image := strings.NewReader("png-bytes")
	url, err := svc.UploadImage(ctx, user.ID, image, int64(image.Len()), "image/png")
	require.NoError(t, err)

	assert.Contains(t, url, "http://media.local/users/")
	assert.Contains(t, mediaStore.lastName, user.ID.String())

	updated, err := store.Users().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, url, updated.Image)
}
