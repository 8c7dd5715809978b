package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateToken("subject-1", RoleDoctor)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "subject-1", claims.Subject)
	assert.Equal(t, RoleDoctor, claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", time.Hour).GenerateToken("subject-1", RoleUser)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)

	token, err := svc.GenerateToken("subject-1", RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
