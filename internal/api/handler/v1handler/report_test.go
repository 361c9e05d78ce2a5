package v1handler_test

import (
	"context"
	"testing"
	"time"

	"renewer/internal/api/handler/v1handler"
	"renewer/pkg/domain"
	"renewer/pkg/serrors"
	mockstorage "renewer/pkg/storage/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDomainRunReportToV1Specs(t *testing.T) {
	ts := time.Date(2026, 10, 18, 5, 0, 0, 0, time.FixedZone("CST", 8*3600))
	in := &domain.RunReport{
		ID:        uuid.New(),
		Timestamp: ts,
		Renewed:   []string{"a.dpdns.org"},
		Failed: []domain.FailedDomain{
			{Domain: "b.dpdns.org", Reason: "no order control"},
			{Domain: "c.dpdns.org", Reason: "confirmation not found"},
		},
	}

	out := v1handler.DomainRunReportToV1Specs(in)
	require.Equal(t, in.ID, out.RunID)
	require.Equal(t, time.UTC, out.Timestamp.Location())
	require.True(t, ts.Equal(out.Timestamp))
	require.Equal(t, 1, out.RenewedCount)
	require.Equal(t, 2, out.FailedCount)
	require.Equal(t, 0, out.NotNeededCount)
	require.Equal(t, []string{"b.dpdns.org", "c.dpdns.org"}, out.FailedDomains)
	require.Equal(t, "confirmation not found", out.FailureReasons["c.dpdns.org"])
	require.NotNil(t, out.NotNeededDomains)
	require.Empty(t, out.NotNeededDomains)
	require.NoError(t, out.Validate())
}

func TestGetLatestReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := mockstorage.NewMockReportStorage(ctrl)
	h := v1handler.New(v1handler.Deps{Reports: reports})

	id := uuid.New()
	reports.EXPECT().LastReport(gomock.Any()).Return(&domain.RunReport{ID: id, NotNeeded: []string{"a.dpdns.org"}}, nil)
	out, err := h.GetLatestReport(context.Background())
	require.NoError(t, err)
	require.Equal(t, id, out.RunID)
	require.Equal(t, []string{"a.dpdns.org"}, out.NotNeededDomains)

	reports.EXPECT().LastReport(gomock.Any()).Return(nil, serrors.KindOnly(serrors.ErrNotFound))
	_, err = h.GetLatestReport(context.Background())
	require.ErrorIs(t, err, serrors.ErrNotFound)
}
