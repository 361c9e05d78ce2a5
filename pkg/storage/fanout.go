package storage

import (
	"context"
	"errors"
	"fmt"

	"renewer/pkg/domain"
)

// Fanout writes reports to every backend and reads them from the first one.
type Fanout []ReportStorage

var _ ReportStorage = Fanout(nil)

func (f Fanout) SaveReport(ctx context.Context, report domain.RunReport) error {
	var errs []error
	for i, s := range f {
		if err := s.SaveReport(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("backend %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

func (f Fanout) LastReport(ctx context.Context) (*domain.RunReport, error) {
	if len(f) == 0 {
		return nil, errors.New("no report storage configured")
	}

	return f[0].LastReport(ctx)
}
