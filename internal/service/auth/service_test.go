package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	authservice "github.com/medibook/booking-api/internal/service/auth"
	"github.com/medibook/booking-api/pkg/apperror"
	"github.com/medibook/booking-api/pkg/auth"
	"github.com/medibook/booking-api/pkg/security"
)

func newService(t *testing.T) (*authservice.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := authservice.NewService(
		store.Users(),
		store.Doctors(),
		security.NewBcryptHasher(4),
		auth.NewJWTService("test-secret", time.Hour),
		authservice.AdminCredentials{Email: "admin@example.com", Password: "admin-secret"},
	)
	return svc, store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	token, err := svc.Register(ctx, &model.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)

	claims, err := svc.ValidateToken(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, claims.Role)

	login, err := svc.Login(ctx, "asha@example.com", "secret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	req := &model.RegisterRequest{Name: "Asha Rao", Email: "asha@example.com", Password: "secret-password"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "short",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalid))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "asha@example.com", "wrong-password")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	_, err = svc.Login(ctx, "nobody@example.com", "secret-password")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestLoginDoctor(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("doctor-password")
	require.NoError(t, err)

	doctor := &model.Doctor{Name: "Dr. Mehta", Email: "mehta@example.com", PasswordHash: hash}
	require.NoError(t, store.Doctors().Create(ctx, doctor))

	token, err := svc.LoginDoctor(ctx, "mehta@example.com", "doctor-password")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleDoctor, claims.Role)
	assert.Equal(t, doctor.ID.String(), claims.Subject)

	_, err = svc.LoginDoctor(ctx, "mehta@example.com", "wrong")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestLoginAdmin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	token, err := svc.LoginAdmin(ctx, "admin@example.com", "admin-secret")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	_, err = svc.LoginAdmin(ctx, "admin@example.com", "wrong")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}
