package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainRecord is a read-only snapshot of one row of the domain listing.
type DomainRecord struct {
	// Name is the registered domain name.
	Name string `json:"name"`
	// Status is the status text shown in the listing.
	Status string `json:"status"`
	// ManageURL is the absolute URL of the domain management page.
	ManageURL string `json:"manageUrl"`
}

// OutcomeKind tags a RenewalOutcome.
type OutcomeKind string

const (
	// OutcomeRenewed indicates a renewal order was confirmed.
	OutcomeRenewed OutcomeKind = "RENEWED"
	// OutcomeNotNeeded indicates the domain offered no renewal.
	OutcomeNotNeeded OutcomeKind = "NOT_NEEDED"
	// OutcomeFailed indicates the renewal transaction could not be completed; see Reason.
	OutcomeFailed OutcomeKind = "FAILED"
)

// RenewalOutcome is the result of walking one domain through the renewal
// transaction. Exactly one exists per DomainRecord per run.
type RenewalOutcome struct {
	Domain string      `json:"domain"`
	Kind   OutcomeKind `json:"kind"`
	// Reason is set for failed outcomes only.
	Reason string `json:"reason,omitempty"`
}

// Renewed builds a RENEWED outcome.
func Renewed(domain string) RenewalOutcome {
	return RenewalOutcome{Domain: domain, Kind: OutcomeRenewed}
}

// NotNeeded builds a NOT_NEEDED outcome.
func NotNeeded(domain string) RenewalOutcome {
	return RenewalOutcome{Domain: domain, Kind: OutcomeNotNeeded}
}

// Failed builds a FAILED outcome carrying reason.
func Failed(domain, reason string) RenewalOutcome {
	return RenewalOutcome{Domain: domain, Kind: OutcomeFailed, Reason: reason}
}

// FailedDomain pairs a domain with the reason its renewal failed.
type FailedDomain struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// RunReport summarizes one run. It is derived once at the end of the run and
// never modified afterwards.
type RunReport struct {
	// ID uniquely identifies the run.
	ID uuid.UUID
	// Timestamp is when the report was produced.
	Timestamp time.Time
	// Renewed lists renewed domains in listing order.
	Renewed []string
	// Failed lists failed domains with their reasons in listing order.
	Failed []FailedDomain
	// NotNeeded lists domains that offered no renewal.
	NotNeeded []string
}

// Total returns the number of domains the run covered.
func (r RunReport) Total() int {
	return len(r.Renewed) + len(r.Failed) + len(r.NotNeeded)
}

// NothingToDo reports whether the run neither renewed nor failed anything.
func (r RunReport) NothingToDo() bool {
	return len(r.Renewed) == 0 && len(r.Failed) == 0
}
