// Package renewal walks every listed domain through the free renewal
// transaction and turns the results into a RunReport.
//
//go:generate mockgen -package mockrenewal -source=interface.go -destination=mock/mockrenewal.go *
package renewal

import (
	"context"
	"time"

	"renewer/internal/auth"
	"renewer/pkg/browser"
	"renewer/pkg/domain"
)

// Authenticator produces an authenticated portal session.
type Authenticator interface {
	Authenticate(ctx context.Context, creds domain.Credentials) (*auth.Session, error)
}

// Processor lists the account's domains and renews one at a time.
type Processor interface {
	// ListDomains snapshots the domain listing. An error is fatal to the run.
	ListDomains(ctx context.Context, sess browser.Session) ([]domain.DomainRecord, error)
	// Renew drives record through the renewal transaction. It never fails:
	// every problem is reported as a FAILED outcome.
	Renew(ctx context.Context, sess browser.Session, record domain.DomainRecord) domain.RenewalOutcome
}

// Recorder receives per-domain and per-run measurements.
type Recorder interface {
	RecordOutcome(ctx context.Context, kind domain.OutcomeKind, took time.Duration)
	RecordRun(ctx context.Context, at time.Time)
}
