package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"renewer/pkg/domain"
	"renewer/pkg/logger"
	"renewer/pkg/serrors"
	"renewer/pkg/sessionstore"

	"go.uber.org/zap"
)

type nopRecorder struct{}

func (nopRecorder) RecordAuthAttempt(context.Context, string, bool) {}

// Chain tries strategies in order and returns the first authenticated session.
type Chain struct {
	strategies []Strategy
	store      sessionstore.Store
	recorder   Recorder
}

// ChainOption customizes a Chain.
type ChainOption func(*Chain)

// WithRecorder reports every attempt to r.
func WithRecorder(r Recorder) ChainOption {
	return func(c *Chain) {
		c.recorder = r
	}
}

// NewChain creates a Chain that saves the winning session token into store.
func NewChain(store sessionstore.Store, strategies []Strategy, opts ...ChainOption) *Chain {
	c := &Chain{strategies: strategies, store: store, recorder: nopRecorder{}}
	for _, o := range opts {
		o(c)
	}

	return c
}

// Authenticate runs the strategies in order until one succeeds. A failing
// strategy is logged and the next one is tried; when none is left the joined
// failures are returned as serrors.ErrAuthChainExhausted.
func (c *Chain) Authenticate(ctx context.Context, creds domain.Credentials) (*Session, error) {
	var errs []error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)

			break
		}

		sctx := logger.WithFields(ctx, logger.Strategy(s.Name()))
		logger.Info(sctx, "trying authentication strategy")

		start := time.Now()
		sess, err := s.Attempt(sctx, creds)
		if err == nil && sess == nil {
			err = errors.New("strategy returned no session")
		}
		if err != nil {
			c.recorder.RecordAuthAttempt(ctx, s.Name(), false)
			logger.Warn(sctx, "authentication strategy failed",
				zap.Duration("took", time.Since(start)), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))

			continue
		}

		c.recorder.RecordAuthAttempt(ctx, s.Name(), true)
		logger.Info(sctx, "authenticated", zap.Duration("took", time.Since(start)))

		if !sess.Token.Empty() {
			if err := c.store.Save(sctx, sess.Token); err != nil {
				logger.Warn(sctx, "could not save session token", zap.Error(err))
			}
		}

		return sess, nil
	}

	return nil, serrors.Wrap(serrors.ErrAuthChainExhausted, errors.Join(errs...), "every authentication strategy failed")
}
