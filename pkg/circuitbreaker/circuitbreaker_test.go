package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripsAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxFailures: 2, Timeout: time.Minute})
	boom := errors.New("boom")

	require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)

	// Breaker is now open; the function must not run.
	ran := false
	err := cb.Execute(func() error { ran = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, ran)
}

func TestRecoversAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxFailures: 1, Timeout: 10 * time.Millisecond})
	boom := errors.New("boom")

	require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	require.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpen)

	time.Sleep(20 * time.Millisecond)

	// Half-open probe succeeds and closes the breaker.
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.NoError(t, cb.Execute(func() error { return nil }))
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxFailures: 2, Timeout: time.Minute})
	boom := errors.New("boom")

	require.Error(t, cb.Execute(func() error { return boom }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return boom }))

	// Still closed: the success in between reset the streak.
	assert.NoError(t, cb.Execute(func() error { return nil }))
}
