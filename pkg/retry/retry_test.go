package retry_test

import (
	"context"
	"errors"
	"renewer/pkg/retry"
	"renewer/pkg/serrors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

// fakeTimer fires immediately and records every requested wait.
type fakeTimer struct {
	waits *[]time.Duration
	c     chan time.Time
}

func (t *fakeTimer) Start(d time.Duration) {
	*t.waits = append(*t.waits, d)
	t.c <- time.Time{}
}

func (t *fakeTimer) Stop() {}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

func newPolicy(opts retry.Options, waits *[]time.Duration) *retry.Policy {
	return retry.New(opts, retry.WithTimer(func() backoff.Timer {
		return &fakeTimer{waits: waits, c: make(chan time.Time, 1)}
	}))
}

func TestPolicy_SucceedsAfterTwoFailures(t *testing.T) {
	var waits []time.Duration
	p := newPolicy(retry.Options{MaxAttempts: 3, Delay: 5 * time.Second}, &waits)

	calls := 0
	err := p.Do(context.Background(), "navigate", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("page not ready")
		}

		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, waits)
}

func TestPolicy_Exhausted(t *testing.T) {
	var waits []time.Duration
	p := newPolicy(retry.Options{MaxAttempts: 3, Delay: time.Second}, &waits)

	cause := errors.New("element missing")
	calls := 0
	err := p.Do(context.Background(), "wait", func(context.Context) error {
		calls++

		return cause
	})

	require.Error(t, err)
	require.Equal(t, 3, calls)
	require.ErrorIs(t, err, serrors.ErrTransientStep)
	require.ErrorIs(t, err, cause)
	require.Len(t, waits, 2)
}

func TestPolicy_Permanent(t *testing.T) {
	var waits []time.Duration
	p := newPolicy(retry.Options{MaxAttempts: 5, Delay: time.Second}, &waits)

	cause := errors.New("rejected")
	calls := 0
	err := p.Do(context.Background(), "login", func(context.Context) error {
		calls++

		return retry.Permanent(cause)
	})

	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, serrors.ErrTransientStep)
	require.Equal(t, 1, calls)
	require.Empty(t, waits)
}

func TestPolicy_ExponentialDelays(t *testing.T) {
	var waits []time.Duration
	p := newPolicy(retry.Options{MaxAttempts: 4, Delay: time.Second, Multiplier: 2, MaxDelay: 3 * time.Second}, &waits)

	err := p.Do(context.Background(), "click", func(context.Context) error {
		return errors.New("busy")
	})

	require.ErrorIs(t, err, serrors.ErrTransientStep)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, waits)
}

func TestPolicy_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := retry.New(retry.Options{MaxAttempts: 3, Delay: time.Hour})

	calls := 0
	err := p.Do(ctx, "navigate", func(context.Context) error {
		calls++
		cancel()

		return errors.New("aborted")
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestPolicy_Defaults(t *testing.T) {
	p := retry.New(retry.Options{})
	require.Equal(t, retry.DefaultMaxAttempts, p.MaxAttempts())
}
