package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"renewer/pkg/domain"

	"github.com/google/uuid"
)

// PgRunReport is the run_reports row.
type PgRunReport struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	RenewedCount   int `db:"renewed_count"`
	FailedCount    int `db:"failed_count"`
	NotNeededCount int `db:"not_needed_count"`

	// jsonb columns are kept as plain []byte so goqu renders them as string literals
	RenewedDomains   []byte `db:"renewed_domains"`
	FailedDomains    []byte `db:"failed_domains"`
	NotNeededDomains []byte `db:"not_needed_domains"`
}

func (p *PgRunReport) ToDomain() (*domain.RunReport, error) {
	out := &domain.RunReport{
		ID:        p.ID,
		Timestamp: p.CreatedAt.UTC(),
	}
	if err := json.Unmarshal(p.RenewedDomains, &out.Renewed); err != nil {
		return nil, fmt.Errorf("could not unmarshal renewed domains: %w", err)
	}
	if err := json.Unmarshal(p.FailedDomains, &out.Failed); err != nil {
		return nil, fmt.Errorf("could not unmarshal failed domains: %w", err)
	}
	if err := json.Unmarshal(p.NotNeededDomains, &out.NotNeeded); err != nil {
		return nil, fmt.Errorf("could not unmarshal not needed domains: %w", err)
	}

	return out, nil
}

func (p *PgRunReport) FromDomain(report domain.RunReport) error {
	marshal := func(v any, what string) ([]byte, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("could not marshal %s: %w", what, err)
		}

		return b, nil
	}

	renewed, err := marshal(nonNil(report.Renewed), "renewed domains")
	if err != nil {
		return err
	}
	failed, err := marshal(nonNil(report.Failed), "failed domains")
	if err != nil {
		return err
	}
	notNeeded, err := marshal(nonNil(report.NotNeeded), "not needed domains")
	if err != nil {
		return err
	}

	*p = PgRunReport{
		ID:               report.ID,
		CreatedAt:        report.Timestamp,
		RenewedCount:     len(report.Renewed),
		FailedCount:      len(report.Failed),
		NotNeededCount:   len(report.NotNeeded),
		RenewedDomains:   renewed,
		FailedDomains:    failed,
		NotNeededDomains: notNeeded,
	}

	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
