package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: NewValidationError("user_id", "must be a valid integer"), want: KindInvalidInput},
		{name: "not found", err: NewNotFoundError("user", "User not found"), want: KindNotFound},
		{name: "internal", err: NewInternalError("Database query error", errors.New("boom")), want: KindInternal},
		{name: "wrapped not found", err: fmt.Errorf("get user: %w", NewNotFoundError("user", "")), want: KindNotFound},
		{name: "plain error", err: errors.New("something else"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(NewValidationError("", "user_id must be a valid integer")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NewNotFoundError("user", "User not found")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(NewInternalError("Database connection error", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unknown")))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "user_id must be a valid integer", NewValidationError("user_id", "must be a valid integer").Error())
	assert.Equal(t, "User not found", NewNotFoundError("user", "User not found").Error())
	assert.Equal(t, "user not found", NewNotFoundError("user", "").Error())

	cause := errors.New("connection refused")
	internal := NewInternalError("Database connection error", cause)
	assert.Equal(t, "Database connection error: connection refused", internal.Error())
	assert.ErrorIs(t, internal, cause)
}
