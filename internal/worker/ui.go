package worker

import (
	"context"
	"fmt"
	"log/slog"

	"renewer/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"go.uber.org/zap/exp/zapslog"
	"riverqueue.com/riverui"
)

// UIPrefix is where the River dashboard is mounted.
const UIPrefix = "/riverui"

// NewUI returns the started River dashboard of client, serving under UIPrefix.
func NewUI(ctx context.Context, client *river.Client[pgx.Tx]) (*riverui.Handler, error) {
	handler, err := riverui.NewHandler(&riverui.HandlerOpts{
		Endpoints: riverui.NewEndpoints(client, nil),
		Logger:    slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
		Prefix:    UIPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river ui: %w", err)
	}

	if err := handler.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river ui: %w", err)
	}

	return handler, nil
}
