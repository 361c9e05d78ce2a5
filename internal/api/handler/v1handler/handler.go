// Package v1handler implements the generated v1 API: the latest run report
// behind RS256 bearer tokens.
package v1handler

import (
	"context"
	"errors"
	"net/http"

	"renewer/internal/api/specs/v1specs"
	"renewer/pkg/controller"
	"renewer/pkg/logger"
	"renewer/pkg/serrors"
	"renewer/pkg/storage"

	"github.com/ogen-go/ogen/ogenerrors"
	"go.uber.org/zap"
)

// Deps are the collaborators the handlers read from.
type Deps struct {
	Reports storage.ReportStorage
}

type Handler struct {
	deps Deps
}

// Ensure Handler implements v1specs.Handler.
var _ v1specs.Handler = (*Handler)(nil)

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

var defaultMessages = map[serrors.Kind]string{
	serrors.ErrNotFound:     "resource not found",
	serrors.ErrUnauthorized: "unauthorized",
	serrors.ErrTimeout:      "timed out",
	serrors.ErrUnavailable:  "unavailable",
	serrors.ErrInternal:     "internal error",
}

var statusCodes = map[serrors.Kind]int{
	serrors.ErrNotFound:     http.StatusNotFound,
	serrors.ErrUnauthorized: http.StatusUnauthorized,
	serrors.ErrTimeout:      http.StatusGatewayTimeout,
	serrors.ErrUnavailable:  http.StatusServiceUnavailable,
	serrors.ErrInternal:     http.StatusInternalServerError,
}

// NewError maps err to the API error body. Semantic kinds keep their own
// message; anything else is logged and reported as an internal error.
func (h Handler) NewError(ctx context.Context, err error) *v1specs.ErrorStatusCode {
	kind := classify(err)
	status, ok := statusCodes[kind]
	if !ok {
		kind, status = serrors.ErrInternal, http.StatusInternalServerError
	}

	msg := defaultMessages[kind]
	var serr *serrors.Error
	if errors.As(err, &serr) && serr.Kind() == kind && serr.Message() != "" {
		msg = serr.Message()
	}

	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
	}

	body := v1specs.Error{Code: kind.Error(), Message: msg}
	if id := controller.RequestID(ctx); id != "" {
		body.RequestID = v1specs.NewOptString(id)
	}

	return &v1specs.ErrorStatusCode{StatusCode: status, Response: body}
}

func classify(err error) serrors.Kind {
	var secErr *ogenerrors.SecurityError
	switch {
	case errors.As(err, &secErr):
		return serrors.ErrUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return serrors.ErrTimeout
	}

	if k, ok := err.(serrors.Kind); ok { //nolint: errorlint // bare sentinel
		return k
	}

	return serrors.KindOf(err)
}
