package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "unauthorized", err: ErrUnauthorized("missing header"), expected: http.StatusUnauthorized},
		{name: "forbidden", err: ErrForbidden(""), expected: http.StatusForbidden},
		{name: "search not authorized", err: ErrSearchNotAuthorized(), expected: http.StatusForbidden},
		{name: "invalid name", err: ErrInvalidAuditorName(""), expected: http.StatusUnprocessableEntity},
		{name: "invalid id", err: ErrInvalidAuditorID("abc"), expected: http.StatusBadRequest},
		{name: "not found", err: ErrAuditorNotFound(7), expected: http.StatusNotFound},
		{name: "rate limit", err: ErrRateLimitExceeded("1m"), expected: http.StatusTooManyRequests},
		{name: "persistence", err: ErrPersistence("append", errors.New("down")), expected: http.StatusServiceUnavailable},
		{name: "wrapped", err: fmt.Errorf("ctx: %w", ErrAuditorNotFound(1)), expected: http.StatusNotFound},
		{name: "plain error", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatusCode(tt.err))
		})
	}
}

func TestSearchNotAuthorizedHasNoDetails(t *testing.T) {
	err := ErrSearchNotAuthorized()
	assert.Empty(t, err.Details)
	assert.Equal(t, "AUTH_1010: Search not authorized", err.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrPersistence("record", cause)
	assert.ErrorIs(t, err, cause)
}
