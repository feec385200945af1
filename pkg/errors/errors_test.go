package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassesCarryStatusCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		code int
		base error
	}{
		{NewValidationError("bad input"), http.StatusBadRequest, ErrValidation},
		{NewNotFoundError("missing"), http.StatusNotFound, ErrNotFound},
		{NewConflictError("slot taken"), http.StatusConflict, ErrConflict},
		{NewInvalidStatusError("bogus"), http.StatusBadRequest, ErrInvalidStatus},
		{NewInternalError("oops"), http.StatusInternalServerError, ErrInternal},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.StatusCode)
		assert.ErrorIs(t, tc.err, tc.base)
		assert.Equal(t, tc.code, StatusCode(tc.err))
	}
}

func TestStatusCodeDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("plain")))
}

func TestStatusCodeUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("gone"))
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))
}

func TestErrorMessagePrecedence(t *testing.T) {
	withMessage := NewConflictError("Table not available for the selected time and party size")
	assert.Equal(t, "Table not available for the selected time and party size", withMessage.Error())

	bare := &AppError{Err: ErrConflict}
	assert.Equal(t, ErrConflict.Error(), bare.Error())
}

func TestWithContext(t *testing.T) {
	err := NewNotFoundError("missing").
		WithContext("orderID", "ord-1").
		WithContext("attempt", 2)

	assert.Equal(t, "ord-1", err.Context["orderID"])
	assert.Equal(t, 2, err.Context["attempt"])
}
