// Package worker runs renewals unattended on a River queue backed by postgres.
// A periodic job enqueues a run on the configured interval and the trigger
// command can enqueue one on demand; a single worker executes them one at a time.
//
//go:generate mockgen -package mockworker -source=interface.go -destination=mock/mockworker.go *
package worker

import (
	"context"

	"renewer/pkg/domain"
)

// Runner executes one renewal run.
type Runner interface {
	Run(ctx context.Context, creds domain.Credentials) (*domain.RunReport, error)
}
