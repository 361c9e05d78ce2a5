package renewal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"renewer/internal/auth"
	"renewer/internal/renewal"
	mockrenewal "renewer/internal/renewal/mock"
	mockbrowser "renewer/pkg/browser/mock"
	"renewer/pkg/domain"
	"renewer/pkg/notify"
	mocknotify "renewer/pkg/notify/mock"
	"renewer/pkg/serrors"
	mockstorage "renewer/pkg/storage/mock"
)

var creds = domain.Credentials{Identity: "user@example.com", Secret: "hunter2"}

type runnerMocks struct {
	auth      *mockrenewal.MockAuthenticator
	processor *mockrenewal.MockProcessor
	reports   *mockstorage.MockReportStorage
	sink      *mocknotify.MockSink
	recorder  *mockrenewal.MockRecorder
	browser   *mockbrowser.MockSession
	runner    *renewal.Runner
}

func newRunner(ctrl *gomock.Controller) runnerMocks {
	m := runnerMocks{
		auth:      mockrenewal.NewMockAuthenticator(ctrl),
		processor: mockrenewal.NewMockProcessor(ctrl),
		reports:   mockstorage.NewMockReportStorage(ctrl),
		sink:      mocknotify.NewMockSink(ctrl),
		recorder:  mockrenewal.NewMockRecorder(ctrl),
		browser:   mockbrowser.NewMockSession(ctrl),
	}
	m.runner = renewal.NewRunner(m.auth, m.processor, m.reports, m.sink, renewal.WithRecorder(m.recorder))

	return m
}

func (m runnerMocks) session() *auth.Session {
	return &auth.Session{Session: m.browser, Strategy: "replay"}
}

func records(names ...string) []domain.DomainRecord {
	out := make([]domain.DomainRecord, 0, len(names))
	for _, n := range names {
		out = append(out, domain.DomainRecord{Name: n, ManageURL: "https://dash/" + n})
	}

	return out
}

func TestRunner_Run_EveryDomainGetsOneOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newRunner(ctrl)
	listed := records("a.dpdns.org", "b.dpdns.org", "c.dpdns.org", "d.dpdns.org")
	outcomes := map[string]domain.RenewalOutcome{
		"a.dpdns.org": domain.Renewed("a.dpdns.org"),
		"b.dpdns.org": domain.NotNeeded("b.dpdns.org"),
		"c.dpdns.org": domain.Failed("c.dpdns.org", "confirmation not found"),
		"d.dpdns.org": domain.Renewed("d.dpdns.org"),
	}

	m.auth.EXPECT().Authenticate(gomock.Any(), creds).Return(m.session(), nil)
	m.processor.EXPECT().ListDomains(gomock.Any(), gomock.Any()).Return(listed, nil)
	for _, rec := range listed {
		m.processor.EXPECT().Renew(gomock.Any(), gomock.Any(), rec).Return(outcomes[rec.Name])
	}
	m.recorder.EXPECT().RecordOutcome(gomock.Any(), gomock.Any(), gomock.Any()).Times(len(listed))
	m.recorder.EXPECT().RecordRun(gomock.Any(), gomock.Any())

	var saved domain.RunReport
	m.reports.EXPECT().SaveReport(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r domain.RunReport) error {
		saved = r

		return nil
	})
	m.sink.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), notify.SeverityWarning).
		Do(func(_ context.Context, title, body string, _ notify.Severity) {
			require.Contains(t, title, "1 of 4")
			require.Contains(t, body, "c.dpdns.org: confirmation not found")
		})
	m.browser.EXPECT().Close().Return(nil)

	report, err := m.runner.Run(context.Background(), creds)
	require.NoError(t, err)
	require.Equal(t, []string{"a.dpdns.org", "d.dpdns.org"}, report.Renewed)
	require.Equal(t, []string{"b.dpdns.org"}, report.NotNeeded)
	require.Equal(t, []domain.FailedDomain{{Domain: "c.dpdns.org", Reason: "confirmation not found"}}, report.Failed)
	require.Equal(t, len(listed), report.Total())
	require.Equal(t, *report, saved)
}

func TestRunner_Run_ZeroDomains(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newRunner(ctrl)
	m.auth.EXPECT().Authenticate(gomock.Any(), creds).Return(m.session(), nil)
	m.processor.EXPECT().ListDomains(gomock.Any(), gomock.Any()).Return(nil, nil)
	m.processor.EXPECT().Renew(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	m.recorder.EXPECT().RecordRun(gomock.Any(), gomock.Any())
	m.reports.EXPECT().SaveReport(gomock.Any(), gomock.Any()).Return(nil)
	m.sink.EXPECT().Send(gomock.Any(), "DigitalPlat renewal check complete", gomock.Any(), notify.SeverityInfo)
	m.browser.EXPECT().Close().Return(nil)

	report, err := m.runner.Run(context.Background(), creds)
	require.NoError(t, err)
	require.Zero(t, report.Total())
	require.True(t, report.NothingToDo())
}

func TestRunner_Run_AuthExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newRunner(ctrl)
	exhausted := serrors.Wrap(serrors.ErrAuthChainExhausted, errors.New("direct: status 401"), "every authentication strategy failed")
	m.auth.EXPECT().Authenticate(gomock.Any(), creds).Return(nil, exhausted)
	m.processor.EXPECT().ListDomains(gomock.Any(), gomock.Any()).Times(0)
	m.reports.EXPECT().SaveReport(gomock.Any(), gomock.Any()).Times(0)
	m.sink.EXPECT().Send(gomock.Any(), "DigitalPlat login failed", gomock.Any(), notify.SeverityCritical).Times(1)

	report, err := m.runner.Run(context.Background(), creds)
	require.ErrorIs(t, err, serrors.ErrAuthChainExhausted)
	require.Nil(t, report)
}

func TestRunner_Run_ListingFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newRunner(ctrl)
	m.auth.EXPECT().Authenticate(gomock.Any(), creds).Return(m.session(), nil)
	m.processor.EXPECT().ListDomains(gomock.Any(), gomock.Any()).
		Return(nil, serrors.Wrap(serrors.ErrTransientStep, errors.New("timeout"), "list domains failed after 3 attempts"))
	m.processor.EXPECT().Renew(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	m.reports.EXPECT().SaveReport(gomock.Any(), gomock.Any()).Times(0)
	m.sink.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), notify.SeverityCritical).Times(1)
	m.browser.EXPECT().Close().Return(nil)

	_, err := m.runner.Run(context.Background(), creds)
	require.ErrorIs(t, err, serrors.ErrTransientStep)
}

func TestRunner_Run_CancelledMidRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newRunner(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listed := records("a.dpdns.org", "b.dpdns.org", "c.dpdns.org")
	m.auth.EXPECT().Authenticate(gomock.Any(), creds).Return(m.session(), nil)
	m.processor.EXPECT().ListDomains(gomock.Any(), gomock.Any()).Return(listed, nil)
	m.processor.EXPECT().Renew(gomock.Any(), gomock.Any(), listed[0]).
		DoAndReturn(func(context.Context, any, domain.DomainRecord) domain.RenewalOutcome {
			cancel()

			return domain.Renewed("a.dpdns.org")
		})
	m.recorder.EXPECT().RecordOutcome(gomock.Any(), gomock.Any(), gomock.Any()).Times(3)
	m.recorder.EXPECT().RecordRun(gomock.Any(), gomock.Any())
	m.reports.EXPECT().SaveReport(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	m.sink.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), notify.SeverityWarning).Times(1)
	m.browser.EXPECT().Close().Return(nil)

	report, err := m.runner.Run(ctx, creds)
	require.NoError(t, err)
	require.Equal(t, []string{"a.dpdns.org"}, report.Renewed)
	require.Len(t, report.Failed, 2)
	require.Equal(t, context.Canceled.Error(), report.Failed[0].Reason)
	require.Equal(t, 3, report.Total())
}

func TestRunner_Run_UsesClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	at := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)
	m := newRunner(ctrl)
	m.runner = renewal.NewRunner(m.auth, m.processor, m.reports, m.sink, renewal.WithClock(func() time.Time { return at }))

	m.auth.EXPECT().Authenticate(gomock.Any(), creds).Return(m.session(), nil)
	m.processor.EXPECT().ListDomains(gomock.Any(), gomock.Any()).Return(nil, nil)
	m.reports.EXPECT().SaveReport(gomock.Any(), gomock.Any()).Return(nil)
	m.sink.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
	m.browser.EXPECT().Close().Return(nil)

	report, err := m.runner.Run(context.Background(), creds)
	require.NoError(t, err)
	require.Equal(t, at, report.Timestamp)
}
