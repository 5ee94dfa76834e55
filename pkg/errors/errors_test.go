package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NewNotFound("patient", nil), http.StatusNotFound},
		{NewNoClinic(), http.StatusNotFound},
		{NewBadRequest("bad", nil), http.StatusBadRequest},
		{NewValidation(map[string]string{"email": "email is invalid"}), http.StatusBadRequest},
		{NewUnauthorized(nil), http.StatusUnauthorized},
		{NewForbidden("nope"), http.StatusForbidden},
		{NewConflict("taken"), http.StatusConflict},
		{NewInternal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestNoClinicIsDistinctFromNotFound(t *testing.T) {
	// Both render as 404, but the frontend keys on the code to route the
	// no-tenant case to onboarding.
	assert.NotEqual(t, NewNotFound("clinic", nil).Code, NewNoClinic().Code)
}

func TestAsUnwrapsThroughWrapping(t *testing.T) {
	inner := NewConflict("time slot is already booked")
	wrapped := fmt.Errorf("booking failed: %w", inner)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrConflict, appErr.Code)

	assert.True(t, IsCode(wrapped, ErrConflict))
	assert.False(t, IsCode(wrapped, ErrNotFound))
	assert.False(t, IsCode(errors.New("plain"), ErrConflict))
}

func TestErrorIncludesCause(t *testing.T) {
	cause := errors.New("sql: no rows")
	err := NewNotFound("appointment", cause)

	assert.Contains(t, err.Error(), "appointment not found")
	assert.ErrorIs(t, err, cause)
}
