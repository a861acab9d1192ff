package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestToDomainError_PassesThroughDomainError(t *testing.T) {
	orig := NewValidationError("description required", map[string]any{"field": "description"})
	wrapped := fmt.Errorf("submit: %w", orig)

	got := ToDomainError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "VALIDATION_FAILED", got.Code)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	assert.Equal(t, "description", got.Details["field"])
}

func TestToDomainError_NoRowsIsNotFound(t *testing.T) {
	got := ToDomainError(fmt.Errorf("get complaint: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
}

func TestToDomainError_UnknownIsInternal(t *testing.T) {
	cause := errors.New("connection reset")
	got := ToDomainError(cause)
	assert.Equal(t, "INTERNAL_ERROR", got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.ErrorIs(t, got, cause)
}

func TestNewNotFound_Message(t *testing.T) {
	err := NewNotFound("complaint", map[string]any{"complaint_id": int64(7)})
	assert.EqualError(t, err, "complaint not found")
}
