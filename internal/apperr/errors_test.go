package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NotFound("products", "PRD-1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDuplicateKey))

	wrapped := fmt.Errorf("record sale: %w", InsufficientStock("Widget", 2, 3))
	assert.True(t, errors.Is(wrapped, ErrInsufficientStock))
	assert.Equal(t, CodeInsufficientStock, CodeOf(wrapped))
}

func TestPersistence_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Persistence("append sales", cause)

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "disk full")
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		DuplicateKey("users", "bob"):          http.StatusConflict,
		NotFound("tasks", "TSK-1"):            http.StatusNotFound,
		Validation("amount must be positive"): http.StatusBadRequest,
		InsufficientStock("x", 0, 1):          http.StatusConflict,
		AccessDenied("user", "bank"):          http.StatusForbidden,
		ErrUnauthorized:                       http.StatusUnauthorized,
		errors.New("boom"):                    http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
}
