package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"renewer/pkg/browser"

	"github.com/cenkalti/backoff/v4"
)

// Login form selectors.
const (
	UsernameInput = "input#username"
	PasswordInput = "input#password"
	LoginButton   = "button#login"
)

// SignedInMarker matches the listing rows or the logout control, both only
// rendered for a signed-in client.
const SignedInMarker = "tr[onclick*='window.location='], a[href*='logout']"

const pollInterval = 500 * time.Millisecond

// Portal locates the registrar pages the strategies need.
type Portal struct {
	LoginURL    string
	DomainsURL  string
	APILoginURL string
	// PostLoginFragment appears in the URL once a login redirect completed.
	PostLoginFragment string
	// PanelFragment appears in the URL of pages only reachable when authenticated.
	PanelFragment string
}

// Timeouts bounds the waits of the strategies.
type Timeouts struct {
	// Gate bounds the wait for the human-verification gate to clear.
	Gate time.Duration
	// Redirect bounds the wait for the post-login redirect.
	Redirect time.Duration
	// Verify bounds the check that a seeded session is signed in.
	Verify time.Duration
}

var errNotYet = errors.New("condition not met yet")

// poll calls cond every pollInterval until it reports done, fails, or timeout elapses.
func poll(ctx context.Context, timeout time.Duration, cond func(ctx context.Context) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := backoff.Retry(func() error {
		done, err := cond(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !done {
			return errNotYet
		}

		return nil
	}, backoff.WithContext(backoff.NewConstantBackOff(pollInterval), ctx))
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("gave up after %s: %w", timeout, err)
	}

	return err
}

// verifySignedIn opens the domain listing and waits until the portal renders
// it for a signed-in client: the login form must stay absent, the URL must
// stay on the panel and an element only shown after login must appear.
func verifySignedIn(ctx context.Context, sess browser.Session, portal Portal, timeout time.Duration) error {
	if err := sess.Navigate(ctx, portal.DomainsURL); err != nil {
		return fmt.Errorf("could not open domain listing: %w", err)
	}

	return poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		loginForm, err := sess.Exists(ctx, UsernameInput)
		if err != nil {
			return false, nil //nolint: nilerr // page still loading
		}
		if loginForm {
			return false, errors.New("portal asked for credentials")
		}

		u, err := sess.URL(ctx)
		if err != nil || !strings.Contains(u, portal.PanelFragment) {
			return false, nil //nolint: nilerr // page still loading
		}

		signedIn, err := sess.Exists(ctx, SignedInMarker)
		if err != nil {
			return false, nil //nolint: nilerr // page still loading
		}

		return signedIn, nil
	})
}
