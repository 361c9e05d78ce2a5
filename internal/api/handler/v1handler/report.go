package v1handler

import (
	"context"

	"renewer/internal/api/specs/v1specs"
	"renewer/pkg/domain"
	"renewer/pkg/logger"

	"go.uber.org/zap"
)

// DomainRunReportToV1Specs maps a run report to its API shape. Lists are never nil.
func DomainRunReportToV1Specs(in *domain.RunReport) *v1specs.RunReport {
	out := v1specs.RunReport{
		RunID:            in.ID,
		Timestamp:        in.Timestamp.UTC(),
		RenewedCount:     len(in.Renewed),
		FailedCount:      len(in.Failed),
		NotNeededCount:   len(in.NotNeeded),
		RenewedDomains:   append([]string{}, in.Renewed...),
		FailedDomains:    make([]string, 0, len(in.Failed)),
		FailureReasons:   make(v1specs.RunReportFailureReasons, len(in.Failed)),
		NotNeededDomains: append([]string{}, in.NotNeeded...),
	}
	for _, f := range in.Failed {
		out.FailedDomains = append(out.FailedDomains, f.Domain)
		out.FailureReasons[f.Domain] = f.Reason
	}

	return &out
}

// GetLatestReport returns the report of the most recent run.
func (h Handler) GetLatestReport(ctx context.Context) (*v1specs.RunReport, error) {
	report, err := h.deps.Reports.LastReport(ctx)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	logger.Debug(ctx, "serving latest report",
		zap.String("subject", SubjectFromContext(ctx)),
		zap.Stringer("runId", report.ID))

	return DomainRunReportToV1Specs(report), nil
}
