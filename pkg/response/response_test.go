package response

import (
	"errors"
	"net/http"
	"testing"

	"bizledger/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestFail(t *testing.T) {
	res := Fail(apperr.InsufficientStock("Widget", 1, 2))
	assert.Equal(t, "error", res.Status)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, apperr.CodeInsufficientStock, res.Code)

	res = Fail(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Empty(t, res.Code)
}

func TestSuccessWithWarning(t *testing.T) {
	res := SuccessWithWarning(http.StatusCreated, 1, nil)
	assert.Empty(t, res.Warning)

	res = SuccessWithWarning(http.StatusCreated, 1, errors.New("audit write failed"))
	assert.Equal(t, "audit write failed", res.Warning)
	assert.Equal(t, "success", res.Status)
}
