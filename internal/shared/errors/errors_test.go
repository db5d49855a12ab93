package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInfrastructureError("store unreachable").WithCause(cause)

	assert.Equal(t, "store unreachable: connection refused", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestAppError_Builders(t *testing.T) {
	err := NewConflictError("continuous query already exists").
		WithCode("already_exists").
		WithComponent("continuous-query-store").
		WithDetail("tableName", "daily_visits")

	assert.Equal(t, ErrorTypeConflict, err.Type)
	assert.Equal(t, http.StatusConflict, err.HTTPCode)
	assert.Equal(t, "already_exists", err.Code)
	assert.Equal(t, "continuous-query-store", err.Component)
	assert.Equal(t, "daily_visits", err.Details["tableName"])
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsConflict(NewConflictError("dup")))
	assert.True(t, IsConflict(ErrConflict))
	assert.False(t, IsConflict(NewNotFoundError("report")))

	assert.True(t, IsNotFound(NewNotFoundError("dashboard")))
	assert.True(t, IsNotFound(ErrProjectNotFound))

	assert.True(t, IsUnsupported(NewUnsupportedError("custom pages not supported")))
	assert.False(t, IsUnsupported(NewConflictError("dup")))

	assert.True(t, IsInconsistency(NewInconsistencyError("dashboard vanished")))
	assert.True(t, IsValidation(NewValidationError("bad recipe")))
}

func TestIsHelpers_Wrapped(t *testing.T) {
	inner := NewConflictError("dup")
	wrapped := fmt.Errorf("install failed: %w", inner)
	assert.True(t, IsConflict(wrapped))
}

func TestWrapError(t *testing.T) {
	appErr := NewValidationError("bad")
	assert.Same(t, appErr, WrapError(appErr, "ignored"))

	plain := errors.New("boom")
	wrapped := WrapError(plain, "install failed")
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.Equal(t, plain, wrapped.Cause)
}
