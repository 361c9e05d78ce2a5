package postgres

import (
	"context"
	"fmt"

	"renewer/pkg/domain"
	"renewer/pkg/serrors"

	"github.com/doug-martin/goqu/v9"
)

const (
	reportsTable = "run_reports"
)

// SaveReport inserts the report, replacing any row with the same run ID.
func (p *PgSQL) SaveReport(ctx context.Context, report domain.RunReport) error {
	var row PgRunReport
	if err := row.FromDomain(report); err != nil {
		return err
	}

	_, err := p.Builder.Insert(reportsTable).
		Rows(row).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"created_at":         goqu.I("excluded.created_at"),
			"renewed_count":      goqu.I("excluded.renewed_count"),
			"failed_count":       goqu.I("excluded.failed_count"),
			"not_needed_count":   goqu.I("excluded.not_needed_count"),
			"renewed_domains":    goqu.I("excluded.renewed_domains"),
			"failed_domains":     goqu.I("excluded.failed_domains"),
			"not_needed_domains": goqu.I("excluded.not_needed_domains"),
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not store report into pg: %w", err)
	}

	return nil
}

// LastReport returns the most recently created report.
func (p *PgSQL) LastReport(ctx context.Context) (*domain.RunReport, error) {
	var row PgRunReport
	found, err := p.Builder.From(reportsTable).
		Order(goqu.I("created_at").Desc()).
		Limit(1).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not get last report from pg: %w", err)
	}
	if !found {
		return nil, serrors.With(serrors.ErrNotFound, "no report stored")
	}

	return row.ToDomain()
}
