package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"renewer/pkg/domain"
	"renewer/pkg/logger"
	"renewer/pkg/serrors"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// RenewWorker is a River worker executing renewal runs.
//
// A run that completes returns nil even when some domains failed; their
// outcomes are in the report. Exhausting every authentication strategy cancels
// the job since an immediate retry would meet the same verification gate.
// Any other error is returned so River retries the job with its backoff.
type RenewWorker struct {
	river.WorkerDefaults[RenewJobArgs]

	runner  Runner
	creds   domain.Credentials
	timeout time.Duration
}

// NewRenewWorker constructs a RenewWorker. timeout bounds one run; zero keeps
// River's default job timeout.
func NewRenewWorker(runner Runner, creds domain.Credentials, timeout time.Duration) *RenewWorker {
	return &RenewWorker{runner: runner, creds: creds, timeout: timeout}
}

// Timeout overrides River's job timeout so a run may take as long as configured.
func (w *RenewWorker) Timeout(*river.Job[RenewJobArgs]) time.Duration {
	return w.timeout
}

// Work executes a single run.
func (w *RenewWorker) Work(ctx context.Context, job *river.Job[RenewJobArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID), zap.String("trigger", job.Args.Trigger))

	report, err := w.runner.Run(ctx, w.creds)
	if err != nil {
		if errors.Is(err, serrors.ErrAuthChainExhausted) {
			logger.Error(ctx, "run cancelled, could not authenticate", zap.Error(err))

			return river.JobCancel(err) //nolint: wrapcheck
		}

		logger.Error(ctx, "run failed", zap.Error(err))

		return fmt.Errorf("could not complete run: %w", err)
	}

	logger.Info(ctx, "run completed",
		zap.String("runId", report.ID.String()),
		zap.Int("renewed", len(report.Renewed)),
		zap.Int("failed", len(report.Failed)))

	return nil
}
