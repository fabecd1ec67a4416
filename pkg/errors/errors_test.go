package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrInvalidInput))

	assert.True(t, IsNotVerified(ErrNotVerified))
	assert.True(t, Is(ErrTooFewWaypoints, ErrTooFewWaypoints))
	assert.True(t, IsTimeout(ErrTimeout))
	assert.True(t, IsCanceled(ErrCanceled))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("waypoints", 1, "at least two required")
	assert.Contains(t, err.Error(), "waypoints")
	assert.Contains(t, err.Error(), "at least two required")
	assert.True(t, IsValidationError(err))
	assert.True(t, Is(err, ErrInvalidInput))

	bare := &ValidationError{Message: "bad input"}
	assert.Equal(t, "validation failed: bad input", bare.Error())
}

func TestGeocodeError(t *testing.T) {
	cause := New("connection refused")
	err := NewGeocodeError("Heathrow Airport", 502, "request failed", cause)

	assert.Contains(t, err.Error(), "Heathrow Airport")
	assert.Contains(t, err.Error(), "502")
	assert.True(t, Is(err, cause))

	var geocodeErr *GeocodeError
	require.True(t, As(err, &geocodeErr))
	assert.Equal(t, 502, geocodeErr.StatusCode)

	noStatus := NewGeocodeError("x", 0, "boom", nil)
	assert.NotContains(t, noStatus.Error(), "status")
}

func TestParseError(t *testing.T) {
	cause := New("unexpected token")
	err := WrapParse("json", "update.json", cause)

	assert.Contains(t, err.Error(), "update.json")
	assert.True(t, Is(err, cause))
	assert.Nil(t, WrapParse("json", "x", nil))
}

func TestIOError(t *testing.T) {
	cause := New("permission denied")
	err := WrapIO("read", "/tmp/trip.yaml", cause)

	assert.Contains(t, err.Error(), "/tmp/trip.yaml")
	assert.True(t, Is(err, cause))
	assert.Nil(t, WrapIO("read", "x", nil))
}

func TestWrapValidation(t *testing.T) {
	err := WrapValidation("region", New("unknown region"))
	assert.True(t, IsValidationError(err))
	assert.Nil(t, WrapValidation("region", nil))
}

func TestExtractionError(t *testing.T) {
	cause := New("rate limited")
	err := &ExtractionError{Model: "gemini-2.0-flash", Message: "generate failed", Err: cause}

	assert.Contains(t, err.Error(), "gemini-2.0-flash")
	assert.True(t, Is(err, cause))
}
