package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{name: "domain error passes through", err: NewConflict("email already in use", nil), wantCode: "CONFLICT", wantStatus: http.StatusConflict},
		{name: "wrapped domain error", err: fmt.Errorf("handler: %w", NewInvalidCredentials()), wantCode: "INVALID_CREDENTIALS", wantStatus: http.StatusUnauthorized},
		{name: "fiber error", err: fiber.NewError(http.StatusBadRequest, "invalid payload"), wantCode: "BAD_REQUEST", wantStatus: http.StatusBadRequest},
		{name: "unknown error", err: cause, wantCode: "INTERNAL_ERROR", wantStatus: http.StatusInternalServerError},
		{name: "unavailable", err: NewServiceUnavailable("try again later", cause), wantCode: "SERVICE_UNAVAILABLE", wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("pq: password authentication failed")
	got := ToDomainError(cause)

	assert.Equal(t, "internal server error", got.Message)
	assert.ErrorIs(t, got, cause)
}
