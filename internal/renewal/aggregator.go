package renewal

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"renewer/pkg/domain"
	"renewer/pkg/notify"

	"github.com/google/uuid"
)

// Aggregator collects one outcome per listed domain in listing order.
type Aggregator struct {
	outcomes []domain.RenewalOutcome
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add appends an outcome.
func (a *Aggregator) Add(o domain.RenewalOutcome) {
	a.outcomes = append(a.outcomes, o)
}

// Outcomes returns a copy of the collected outcomes.
func (a *Aggregator) Outcomes() []domain.RenewalOutcome {
	return slices.Clone(a.outcomes)
}

// Report partitions the outcomes into a RunReport.
func (a *Aggregator) Report(id uuid.UUID, at time.Time) domain.RunReport {
	report := domain.RunReport{
		ID:        id,
		Timestamp: at,
		Renewed:   []string{},
		Failed:    []domain.FailedDomain{},
		NotNeeded: []string{},
	}

	for _, o := range a.outcomes {
		switch o.Kind {
		case domain.OutcomeRenewed:
			report.Renewed = append(report.Renewed, o.Domain)
		case domain.OutcomeNotNeeded:
			report.NotNeeded = append(report.NotNeeded, o.Domain)
		default:
			report.Failed = append(report.Failed, domain.FailedDomain{Domain: o.Domain, Reason: o.Reason})
		}
	}

	return report
}

// Summarize renders the notification for a completed run.
func Summarize(report domain.RunReport) (title, body string, severity notify.Severity) {
	switch {
	case len(report.Failed) > 0:
		var b strings.Builder
		fmt.Fprintf(&b, "Failed domains:\n")
		for _, f := range report.Failed {
			fmt.Fprintf(&b, "%s: %s\n", f.Domain, f.Reason)
		}
		if len(report.Renewed) > 0 {
			fmt.Fprintf(&b, "Renewed domains:\n%s\n", strings.Join(report.Renewed, "\n"))
		}

		return fmt.Sprintf("DigitalPlat renewal: %d of %d domains failed", len(report.Failed), report.Total()),
			strings.TrimSpace(b.String()), notify.SeverityWarning
	case len(report.Renewed) > 0:
		return fmt.Sprintf("Renewed %d DigitalPlat domains", len(report.Renewed)),
			"Renewed domains:\n" + strings.Join(report.Renewed, "\n"), notify.SeverityInfo
	default:
		return "DigitalPlat renewal check complete",
			fmt.Sprintf("Checked %d domains, none needed renewal.", report.Total()), notify.SeverityInfo
	}
}
