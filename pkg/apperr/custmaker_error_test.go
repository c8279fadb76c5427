package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsAppError(t *testing.T) {
	base := errors.New("connection refused")
	wrapped := fmt.Errorf("persist batch: %w", DatabaseError("insert customers", base))

	appErr := AsAppError(wrapped)
	assert.Equal(t, CodeDatabaseError, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(wrapped))
	assert.ErrorIs(t, wrapped, base)

	plain := AsAppError(base)
	assert.Equal(t, CodeInternalError, plain.Code)
	assert.False(t, IsAppError(base))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("count", "must not be negative").WithDetail("value", -1)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "count", err.Details["field"])
	assert.Equal(t, -1, err.Details["value"])
	assert.Equal(t, "[INVALID_INPUT] invalid input for 'count': must not be negative", err.Error())
}
