// Package auth establishes an authenticated portal session. A Chain walks an
// ordered list of strategies (replay a stored session, interactive logins on
// two browser engines, a direct HTTP login) and stops at the first success.
//
//go:generate mockgen -package mockauth -source=interface.go -destination=mock/mockauth.go *
package auth

import (
	"context"

	"renewer/pkg/browser"
	"renewer/pkg/domain"
)

// Strategy is one way of logging in.
type Strategy interface {
	// Name identifies the strategy in logs, metrics and configuration.
	Name() string
	// Attempt logs in and returns a live authenticated session. On failure it
	// must release any browser it opened.
	Attempt(ctx context.Context, creds domain.Credentials) (*Session, error)
}

// Recorder receives one call per strategy attempt.
type Recorder interface {
	RecordAuthAttempt(ctx context.Context, strategy string, ok bool)
}

// Session is a browser session proven to be authenticated. Its owner must
// Close it exactly once.
type Session struct {
	browser.Session

	// Token is the session token captured after authentication.
	Token domain.SessionToken
	// Strategy names the strategy that produced the session.
	Strategy string
}
