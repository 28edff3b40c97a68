package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPError_Is(t *testing.T) {
	tableNotFound := NewNotFoundError("table not found", true, Code("TABLE_NOT_FOUND"))
	billNotFound := NewNotFoundError("bill not found", true, Code("BILL_NOT_FOUND"))

	wrapped := fmt.Errorf("switch table: %w", tableNotFound.WithMessage("table 7 not found"))

	assert.True(t, errors.Is(wrapped, tableNotFound))
	assert.False(t, errors.Is(wrapped, billNotFound))
	assert.True(t, errors.Is(wrapped, &HTTPError{}), "empty code matches any HTTPError")
	assert.False(t, errors.Is(errors.New("plain"), tableNotFound))
}

func TestHTTPError_WithMessageKeepsSentinel(t *testing.T) {
	sentinel := NewBadRequestError("original", true, Code("SAME_TABLE"), nil, nil)

	copied := sentinel.WithMessagef("table %d twice", 3)

	assert.Equal(t, "table 3 twice", copied.Message)
	assert.Equal(t, "original", sentinel.Message)
	assert.Equal(t, "SAME_TABLE", copied.Code)
	assert.Equal(t, http.StatusBadRequest, copied.Status)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "UNAUTHORIZED", NewUnauthorizedError("x", false).Code)
	assert.Equal(t, "FORBIDDEN", NewForbiddenError("x", false).Code)
	assert.Equal(t, "NOT_FOUND", NewNotFoundError("x", false, nil).Code)
	assert.Equal(t, "CONFLICT", NewConflictError("x", false, nil).Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", NewTooManyRequestsError("x").Code)

	internal := NewInternalServerError()
	assert.Equal(t, "INTERNAL_SERVER_ERROR", internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.False(t, internal.Override)

	validation := ValidationError(errors.New("count is required"))
	assert.Equal(t, "Validation failed: count is required", validation.Message)
}
