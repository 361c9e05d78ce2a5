package v1handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"renewer/internal/api/handler/v1handler"
	"renewer/pkg/logger"
	"renewer/pkg/serrors"

	"github.com/ogen-go/ogen/ogenerrors"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Initialize logger to avoid nil pointer deref during tests
	_ = logger.Setup(logger.DevelopmentEnvironment, "")
	m.Run()
}

func TestNewError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "plain error is internal",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL",
			message: "internal error",
		},
		{
			name:    "bare kind sentinel",
			err:     serrors.ErrNotFound,
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "resource not found",
		},
		{
			name:    "semantic error keeps its message",
			err:     serrors.With(serrors.ErrNotFound, "no run report yet"),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "no run report yet",
		},
		{
			name:    "wrapped semantic error hides the cause",
			err:     fmt.Errorf("read: %w", serrors.Wrap(serrors.ErrUnavailable, errors.New("dial tcp"), "database down")),
			status:  http.StatusServiceUnavailable,
			code:    "UNAVAILABLE",
			message: "database down",
		},
		{
			name:    "deadline",
			err:     fmt.Errorf("query: %w", context.DeadlineExceeded),
			status:  http.StatusGatewayTimeout,
			code:    "TIMEOUT",
			message: "timed out",
		},
		{
			name:    "kind without status is internal",
			err:     serrors.With(serrors.ErrDomainTransaction, "renewal failed"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL",
			message: "internal error",
		},
		{
			name: "missing token",
			err: &ogenerrors.SecurityError{
				Err: ogenerrors.ErrSecurityRequirementIsNotSatisfied,
			},
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
			message: "unauthorized",
		},
	}

	h := v1handler.New(v1handler.Deps{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.NewError(context.Background(), tt.err)
			require.NotNil(t, res)
			require.Equal(t, tt.status, res.StatusCode)
			require.Equal(t, tt.code, res.Response.Code)
			require.Equal(t, tt.message, res.Response.Message)
			require.False(t, res.Response.RequestID.IsSet())
		})
	}
}
