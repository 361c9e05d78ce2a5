// Package sessionstore persists the session token between runs so the next
// run can try to replay it before logging in again.
//
//go:generate mockgen -package mocksessionstore -source=interface.go -destination=mock/mocksessionstore.go *
package sessionstore

import (
	"context"

	"renewer/pkg/domain"
)

// Store holds at most one session token.
type Store interface {
	// Save overwrites the stored token.
	Save(ctx context.Context, token domain.SessionToken) error
	// Load returns the stored token. A missing, unreadable or corrupt token is
	// reported as absent and never as an error.
	Load(ctx context.Context) (domain.SessionToken, bool)
}
