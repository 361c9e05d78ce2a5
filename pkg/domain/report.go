package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// reportRecord is the persisted, machine-readable form of a RunReport.
type reportRecord struct {
	RunID          uuid.UUID         `json:"run_id"`
	Timestamp      time.Time         `json:"timestamp"`
	RenewedCount   int               `json:"renewed_count"`
	FailedCount    int               `json:"failed_count"`
	NotNeededCount int               `json:"not_needed_count"`
	RenewedDomains []string          `json:"renewed_domains"`
	FailedDomains  []string          `json:"failed_domains"`
	FailureReasons map[string]string `json:"failure_reasons"`
	NotNeeded      []string          `json:"not_needed_domains"`
}

// MarshalJSON encodes the report in its persisted record layout.
func (r RunReport) MarshalJSON() ([]byte, error) {
	rec := reportRecord{
		RunID:          r.ID,
		Timestamp:      r.Timestamp.UTC(),
		RenewedCount:   len(r.Renewed),
		FailedCount:    len(r.Failed),
		NotNeededCount: len(r.NotNeeded),
		RenewedDomains: nonNil(r.Renewed),
		FailedDomains:  make([]string, 0, len(r.Failed)),
		FailureReasons: make(map[string]string, len(r.Failed)),
		NotNeeded:      nonNil(r.NotNeeded),
	}
	for _, f := range r.Failed {
		rec.FailedDomains = append(rec.FailedDomains, f.Domain)
		rec.FailureReasons[f.Domain] = f.Reason
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("could not marshal run report: %w", err)
	}

	return b, nil
}

// UnmarshalJSON decodes a persisted report record.
func (r *RunReport) UnmarshalJSON(b []byte) error {
	var rec reportRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return fmt.Errorf("could not unmarshal run report: %w", err)
	}

	*r = RunReport{
		ID:        rec.RunID,
		Timestamp: rec.Timestamp,
		Renewed:   rec.RenewedDomains,
		NotNeeded: rec.NotNeeded,
	}
	for _, d := range rec.FailedDomains {
		r.Failed = append(r.Failed, FailedDomain{Domain: d, Reason: rec.FailureReasons[d]})
	}

	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
