package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"renewer/pkg/browser"
	"renewer/pkg/domain"
	"renewer/pkg/retry"
	"renewer/pkg/serrors"
)

// Interactive logs in through the login form of a browser engine. It waits
// out the human-verification gate, types the credentials and waits for the
// post-login redirect.
type Interactive struct {
	launcher      browser.Launcher
	opts          browser.Options
	portal        Portal
	timeouts      Timeouts
	policy        *retry.Policy
	screenshotDir string
}

var _ Strategy = (*Interactive)(nil)

// NewInteractive creates an interactive strategy on launcher.
func NewInteractive(
	launcher browser.Launcher,
	opts browser.Options,
	portal Portal,
	timeouts Timeouts,
	policy *retry.Policy,
	screenshotDir string,
) *Interactive {
	return &Interactive{
		launcher:      launcher,
		opts:          opts,
		portal:        portal,
		timeouts:      timeouts,
		policy:        policy,
		screenshotDir: screenshotDir,
	}
}

// Name is the engine name, so each engine is its own strategy.
func (i *Interactive) Name() string { return i.launcher.Name() }

func (i *Interactive) Attempt(ctx context.Context, creds domain.Credentials) (_ *Session, err error) {
	sess, err := i.launcher.Launch(ctx, i.opts)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrStrategyFailed, err, "could not launch %s", i.Name())
	}
	defer func() {
		if err != nil {
			browser.Capture(ctx, sess, i.screenshotDir, i.Name()+"-login-failed")
			_ = sess.Close()
		}
	}()

	if err := i.login(ctx, sess, creds); err != nil {
		return nil, serrors.Wrap(serrors.ErrStrategyFailed, err, "%s login failed", i.Name())
	}

	cookies, err := sess.Cookies(ctx)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrStrategyFailed, err, "could not capture session")
	}

	return &Session{
		Session: sess,
		Token: domain.SessionToken{
			Cookies:    cookies,
			CapturedAt: time.Now().UTC(),
			Source:     i.Name(),
		},
		Strategy: i.Name(),
	}, nil
}

func (i *Interactive) login(ctx context.Context, sess browser.Session, creds domain.Credentials) error {
	err := i.policy.Do(ctx, "open login page", func(ctx context.Context) error {
		return sess.Navigate(ctx, i.portal.LoginURL)
	})
	if err != nil {
		return err
	}

	// the verification gate redirects to the form on its own when it passes
	if err := sess.WaitVisible(ctx, UsernameInput, i.timeouts.Gate); err != nil {
		return fmt.Errorf("verification gate did not clear: %w", err)
	}

	if err := sess.Type(ctx, UsernameInput, creds.Identity); err != nil {
		return fmt.Errorf("could not fill username: %w", err)
	}
	if err := sess.Type(ctx, PasswordInput, creds.Secret); err != nil {
		return fmt.Errorf("could not fill password: %w", err)
	}
	if err := sess.Click(ctx, LoginButton); err != nil {
		return fmt.Errorf("could not submit login form: %w", err)
	}

	err = poll(ctx, i.timeouts.Redirect, func(ctx context.Context) (bool, error) {
		u, err := sess.URL(ctx)
		if err != nil {
			return false, nil //nolint: nilerr // navigation in flight
		}

		return strings.Contains(u, i.portal.PostLoginFragment), nil
	})
	if err != nil {
		return fmt.Errorf("no post-login redirect: %w", err)
	}

	return nil
}
