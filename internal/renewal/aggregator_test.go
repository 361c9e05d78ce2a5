package renewal_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"renewer/internal/renewal"
	"renewer/pkg/domain"
	"renewer/pkg/notify"
)

func TestAggregator_Partition(t *testing.T) {
	agg := renewal.NewAggregator()
	in := []domain.RenewalOutcome{
		domain.NotNeeded("a.dpdns.org"),
		domain.Renewed("b.dpdns.org"),
		domain.Failed("c.dpdns.org", "no checkout control"),
		domain.Renewed("d.dpdns.org"),
		domain.NotNeeded("e.dpdns.org"),
	}
	for _, o := range in {
		agg.Add(o)
	}

	id := uuid.New()
	at := time.Now().UTC()
	report := agg.Report(id, at)

	require.Equal(t, id, report.ID)
	require.Equal(t, at, report.Timestamp)
	require.Equal(t, []string{"b.dpdns.org", "d.dpdns.org"}, report.Renewed)
	require.Equal(t, []string{"a.dpdns.org", "e.dpdns.org"}, report.NotNeeded)
	require.Equal(t, []domain.FailedDomain{{Domain: "c.dpdns.org", Reason: "no checkout control"}}, report.Failed)
	require.Equal(t, len(in), report.Total())
	require.Equal(t, in, agg.Outcomes())

	seen := map[string]int{}
	for _, d := range report.Renewed {
		seen[d]++
	}
	for _, d := range report.NotNeeded {
		seen[d]++
	}
	for _, f := range report.Failed {
		seen[f.Domain]++
	}
	for _, o := range in {
		require.Equal(t, 1, seen[o.Domain], o.Domain)
	}
}

func TestAggregator_OutcomesIsACopy(t *testing.T) {
	agg := renewal.NewAggregator()
	agg.Add(domain.Renewed("a.dpdns.org"))

	out := agg.Outcomes()
	out[0] = domain.Failed("a.dpdns.org", "tampered")

	require.Equal(t, domain.OutcomeRenewed, agg.Outcomes()[0].Kind)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		report       domain.RunReport
		wantTitle    string
		wantBody     []string
		wantSeverity notify.Severity
	}{
		{
			name:         "Nothing To Do",
			report:       domain.RunReport{NotNeeded: []string{"a.dpdns.org"}},
			wantTitle:    "DigitalPlat renewal check complete",
			wantBody:     []string{"Checked 1 domains"},
			wantSeverity: notify.SeverityInfo,
		},
		{
			name:         "Zero Domains",
			report:       domain.RunReport{},
			wantTitle:    "DigitalPlat renewal check complete",
			wantBody:     []string{"Checked 0 domains"},
			wantSeverity: notify.SeverityInfo,
		},
		{
			name:         "Renewed Only",
			report:       domain.RunReport{Renewed: []string{"a.dpdns.org", "b.dpdns.org"}, NotNeeded: []string{"c.dpdns.org"}},
			wantTitle:    "Renewed 2 DigitalPlat domains",
			wantBody:     []string{"a.dpdns.org\nb.dpdns.org"},
			wantSeverity: notify.SeverityInfo,
		},
		{
			name: "With Failures",
			report: domain.RunReport{
				Renewed: []string{"a.dpdns.org"},
				Failed:  []domain.FailedDomain{{Domain: "b.dpdns.org", Reason: "no order control"}},
			},
			wantTitle:    "DigitalPlat renewal: 1 of 2 domains failed",
			wantBody:     []string{"b.dpdns.org: no order control", "Renewed domains:\na.dpdns.org"},
			wantSeverity: notify.SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body, severity := renewal.Summarize(tt.report)
			require.Equal(t, tt.wantTitle, title)
			require.Equal(t, tt.wantSeverity, severity)
			for _, want := range tt.wantBody {
				require.Contains(t, body, want)
			}
		})
	}
}
