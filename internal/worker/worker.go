package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"renewer/pkg/domain"
	"renewer/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// Options configures the queue.
type Options struct {
	// Interval is the period between scheduled runs.
	Interval time.Duration
	// RunOnStart enqueues a run as soon as the queue starts.
	RunOnStart bool
	// RunTimeout bounds a single run.
	RunTimeout time.Duration
}

// PeriodicJobs returns the job schedule of the queue.
func PeriodicJobs(opts Options) []*river.PeriodicJob {
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(opts.Interval),
			func() (river.JobArgs, *river.InsertOpts) {
				return RenewJobArgs{Trigger: TriggerSchedule}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: opts.RunOnStart},
		),
	}
}

// Start registers the renew worker and starts a River client processing one
// job at a time.
func Start(
	ctx context.Context,
	dbPool *pgxpool.Pool,
	runner Runner,
	creds domain.Credentials,
	opts Options,
) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewRenewWorker(runner, creds, opts.RunTimeout))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			// runs never overlap
			river.QueueDefault: {MaxWorkers: 1},
		},
		PeriodicJobs: PeriodicJobs(opts),
		Workers:      workers,
		Logger:       slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
