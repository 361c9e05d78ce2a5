package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"renewer/internal/config"
	"renewer/pkg/browser"
	"renewer/pkg/domain"
	"renewer/pkg/logger"
	"renewer/pkg/serrors"
	"renewer/pkg/sessionstore"

	"go.uber.org/zap"
)

// Replay reuses the stored session token in a fresh primary engine browser.
type Replay struct {
	store    sessionstore.Store
	launcher browser.Launcher
	opts     browser.Options
	portal   Portal
	timeout  time.Duration
}

var _ Strategy = (*Replay)(nil)

// NewReplay creates the replay strategy.
func NewReplay(store sessionstore.Store, launcher browser.Launcher, opts browser.Options, portal Portal, probeTimeout time.Duration) *Replay {
	return &Replay{store: store, launcher: launcher, opts: opts, portal: portal, timeout: probeTimeout}
}

func (r *Replay) Name() string { return config.StrategyReplay }

func (r *Replay) Attempt(ctx context.Context, _ domain.Credentials) (*Session, error) {
	token, ok := r.store.Load(ctx)
	if !ok {
		return nil, serrors.With(serrors.ErrStrategyFailed, "no stored session")
	}

	logger.Debug(ctx, "replaying stored session",
		zap.String("source", token.Source), zap.Time("capturedAt", token.CapturedAt))

	sess, err := seeded(ctx, r.launcher, r.opts, token.Cookies, r.portal, r.timeout)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrStrategyFailed, err, "stored session rejected")
	}

	return &Session{Session: sess, Token: token, Strategy: r.Name()}, nil
}

// seeded launches a browser carrying cookies and verifies the portal accepts
// them. The browser is closed when it does not.
func seeded(
	ctx context.Context,
	launcher browser.Launcher,
	opts browser.Options,
	cookies []domain.Cookie,
	portal Portal,
	timeout time.Duration,
) (browser.Session, error) {
	opts.Cookies = cookies

	sess, err := launcher.Launch(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("could not launch %s: %w", launcher.Name(), err)
	}

	if err := verifySignedIn(ctx, sess, portal, timeout); err != nil {
		return nil, errors.Join(err, sess.Close())
	}

	return sess, nil
}
