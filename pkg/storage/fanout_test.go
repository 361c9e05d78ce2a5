package storage_test

import (
	"context"
	"errors"
	"renewer/pkg/domain"
	"renewer/pkg/storage"
	mockstorage "renewer/pkg/storage/mock"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFanout_SaveReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	report := domain.RunReport{ID: uuid.New(), Renewed: []string{"a.dpdns.org"}}

	first := mockstorage.NewMockReportStorage(ctrl)
	second := mockstorage.NewMockReportStorage(ctrl)
	cause := errors.New("disk full")

	first.EXPECT().SaveReport(ctx, report).Return(cause)
	second.EXPECT().SaveReport(ctx, report).Return(nil)

	err := storage.Fanout{first, second}.SaveReport(ctx, report)
	require.ErrorIs(t, err, cause, "a failing backend must not stop the others")
}

func TestFanout_LastReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	report := &domain.RunReport{ID: uuid.New()}

	first := mockstorage.NewMockReportStorage(ctrl)
	second := mockstorage.NewMockReportStorage(ctrl)
	first.EXPECT().LastReport(ctx).Return(report, nil)

	got, err := storage.Fanout{first, second}.LastReport(ctx)
	require.NoError(t, err)
	require.Equal(t, report, got)

	_, err = storage.Fanout{}.LastReport(ctx)
	require.Error(t, err)
}
