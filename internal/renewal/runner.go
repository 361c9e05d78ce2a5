package renewal

import (
	"context"
	"fmt"
	"time"

	"renewer/pkg/domain"
	"renewer/pkg/logger"
	"renewer/pkg/notify"
	"renewer/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type nopRecorder struct{}

func (nopRecorder) RecordOutcome(context.Context, domain.OutcomeKind, time.Duration) {}
func (nopRecorder) RecordRun(context.Context, time.Time)                             {}

// Runner performs one complete run: authenticate, list, renew every domain,
// persist the report and notify.
type Runner struct {
	auth      Authenticator
	processor Processor
	reports   storage.ReportStorage
	sink      notify.Sink
	recorder  Recorder
	now       func() time.Time
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithRecorder reports measurements to r.
func WithRecorder(r Recorder) RunnerOption {
	return func(rn *Runner) {
		rn.recorder = r
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) RunnerOption {
	return func(rn *Runner) {
		rn.now = now
	}
}

// NewRunner creates a Runner.
func NewRunner(
	authenticator Authenticator,
	processor Processor,
	reports storage.ReportStorage,
	sink notify.Sink,
	opts ...RunnerOption,
) *Runner {
	r := &Runner{
		auth:      authenticator,
		processor: processor,
		reports:   reports,
		sink:      sink,
		recorder:  nopRecorder{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}

	return r
}

// Run executes one run and sends exactly one notification. A run that reached
// the domain loop returns its report and a nil error even when domains failed.
// Authentication exhaustion and listing failures return an error and no report.
func (r *Runner) Run(ctx context.Context, creds domain.Credentials) (*domain.RunReport, error) {
	id := uuid.New()
	ctx = logger.WithFields(ctx, logger.RunID(id.String()))

	started := r.now()
	logger.Info(ctx, "run started")

	sess, err := r.auth.Authenticate(ctx, creds)
	if err != nil {
		logger.Error(ctx, "authentication failed", zap.Error(err))
		r.sink.Send(ctx, "DigitalPlat login failed",
			fmt.Sprintf("No authentication strategy succeeded:\n%s", err), notify.SeverityCritical)

		return nil, err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn(ctx, "could not close browser", zap.Error(err))
		}
	}()

	ctx = logger.WithFields(ctx, logger.Strategy(sess.Strategy))

	records, err := r.processor.ListDomains(ctx, sess)
	if err != nil {
		logger.Error(ctx, "could not list domains", zap.Error(err))
		r.sink.Send(ctx, "DigitalPlat run error",
			fmt.Sprintf("Could not read the domain listing:\n%s", err), notify.SeverityCritical)

		return nil, err
	}

	agg := NewAggregator()
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			agg.Add(domain.Failed(rec.Name, err.Error()))
			r.recorder.RecordOutcome(ctx, domain.OutcomeFailed, 0)

			continue
		}

		logger.Info(ctx, "checking domain",
			logger.Domain(rec.Name), zap.String("status", rec.Status),
			zap.Int("index", i+1), zap.Int("of", len(records)))

		t := r.now()
		out := r.processor.Renew(ctx, sess, rec)
		agg.Add(out)
		r.recorder.RecordOutcome(ctx, out.Kind, r.now().Sub(t))
	}

	report := agg.Report(id, r.now().UTC())
	// the report outlives a cancelled run
	if err := r.reports.SaveReport(context.WithoutCancel(ctx), report); err != nil {
		logger.Error(ctx, "could not save run report", zap.Error(err))
	}
	r.recorder.RecordRun(ctx, report.Timestamp)

	title, body, severity := Summarize(report)
	r.sink.Send(context.WithoutCancel(ctx), title, body, severity)

	logger.Info(ctx, "run finished",
		zap.Int("renewed", len(report.Renewed)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("notNeeded", len(report.NotNeeded)),
		zap.Duration("took", r.now().Sub(started)))

	return &report, nil
}
