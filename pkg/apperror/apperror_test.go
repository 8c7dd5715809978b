package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("doctor", nil).StatusCode())
	assert.Equal(t, http.StatusConflict, Conflict("slot not available", nil).StatusCode())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("invalid credentials").StatusCode())
	assert.Equal(t, http.StatusForbidden, Unavailable("doctor not available").StatusCode())
	assert.Equal(t, http.StatusBadRequest, Invalid("bad slot key", nil).StatusCode())
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("db down")).StatusCode())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, fmt.Errorf("booking: %w", err), cause)
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Conflict("slot not available", nil))

	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}

func TestIsDomain(t *testing.T) {
	assert.True(t, IsDomain(NotFound("doctor", nil)))
	assert.True(t, IsDomain(Conflict("slot not available", nil)))
	assert.False(t, IsDomain(Internal(errors.New("db down"))))
	assert.False(t, IsDomain(errors.New("plain")))
}
