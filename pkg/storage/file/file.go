// Package file persists the latest run report as a JSON file, the
// machine-readable record operators and monitoring scripts read after a run.
package file

import (
	"context"
	"encoding/json"
	"fmt"

	"renewer/pkg/atomicfile"
	"renewer/pkg/domain"
	"renewer/pkg/serrors"
	"renewer/pkg/storage"
)

// DefaultPath is where the report lands when no path is configured.
const DefaultPath = "renewal_report.json"

// Store keeps only the most recent report.
type Store struct {
	path string
}

var _ storage.ReportStorage = (*Store)(nil)

func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}

	return &Store{path: path}
}

func (s *Store) SaveReport(_ context.Context, report domain.RunReport) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal report: %w", err)
	}

	if err := atomicfile.WriteFile(s.path, append(b, '\n'), 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("could not write report: %w", err)
	}

	return nil
}

func (s *Store) LastReport(_ context.Context) (*domain.RunReport, error) {
	b, err := atomicfile.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, serrors.With(serrors.ErrNotFound, "no report at %s", s.path)
	}

	var report domain.RunReport
	if err := json.Unmarshal(b, &report); err != nil {
		return nil, fmt.Errorf("could not decode report: %w", err)
	}

	return &report, nil
}
