// Package retry bounds transient browser and HTTP steps. A Policy runs a step,
// waits, and runs it again until it succeeds, the attempts run out, the step
// reports a permanent failure or the context is cancelled.
package retry

import (
	"context"
	"errors"
	"time"

	"renewer/pkg/logger"
	"renewer/pkg/serrors"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 5 * time.Second
)

// Options configures a Policy.
type Options struct {
	// MaxAttempts is the total number of calls including the first one.
	MaxAttempts int
	// Delay is the wait before the second attempt.
	Delay time.Duration
	// Multiplier grows the delay between attempts. Values <= 1 keep it fixed.
	Multiplier float64
	// MaxDelay caps the delay when Multiplier > 1. Zero means uncapped.
	MaxDelay time.Duration
}

// Option customizes a Policy.
type Option func(*Policy)

// WithTimer replaces the timer used for waits between attempts.
func WithTimer(newTimer func() backoff.Timer) Option {
	return func(p *Policy) {
		p.newTimer = newTimer
	}
}

// Policy is a bounded retry policy. It is safe for concurrent use.
type Policy struct {
	opts     Options
	newTimer func() backoff.Timer
}

// New builds a Policy. Zero options fall back to three attempts five seconds apart.
func New(opts Options, options ...Option) *Policy {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}

	p := &Policy{opts: opts}
	for _, o := range options {
		o(p)
	}

	return p
}

// MaxAttempts returns the configured attempt bound.
func (p *Policy) MaxAttempts() int { return p.opts.MaxAttempts }

// Permanent marks err as not worth retrying. Do returns it unwrapped.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

func (p *Policy) backOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = backoff.NewConstantBackOff(p.opts.Delay)
	if p.opts.Multiplier > 1 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = p.opts.Delay
		exp.Multiplier = p.opts.Multiplier
		exp.RandomizationFactor = 0
		exp.MaxElapsedTime = 0
		if p.opts.MaxDelay > 0 {
			exp.MaxInterval = p.opts.MaxDelay
		}
		exp.Reset()
		b = exp
	}

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.opts.MaxAttempts-1)), ctx)
}

// Do runs fn until it succeeds. When every attempt fails the last error is
// returned wrapped in serrors.ErrTransientStep. Permanent errors and context
// errors are returned as they are.
func (p *Policy) Do(ctx context.Context, step string, fn func(ctx context.Context) error) error {
	attempt := 0
	permanent := false
	op := func() error {
		attempt++
		err := fn(ctx)

		var perr *backoff.PermanentError
		if errors.As(err, &perr) {
			permanent = true
		}

		return err
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn(ctx, "step failed, retrying",
			zap.String("step", step),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", p.opts.MaxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	var timer backoff.Timer
	if p.newTimer != nil {
		timer = p.newTimer()
	}

	err := backoff.RetryNotifyWithTimer(op, p.backOff(ctx), notify, timer)
	switch {
	case err == nil:
		return nil
	case permanent, ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return err
	default:
		return serrors.Wrap(serrors.ErrTransientStep, err, "%s failed after %d attempts", step, attempt)
	}
}
