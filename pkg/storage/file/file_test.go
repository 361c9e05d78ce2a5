package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"renewer/pkg/domain"
	"renewer/pkg/serrors"
	"renewer/pkg/storage/file"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStore_LastReport_missing(t *testing.T) {
	_, err := file.New(filepath.Join(t.TempDir(), "report.json")).LastReport(context.Background())
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestStore_SaveReport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "report.json")
	s := file.New(path)

	report := domain.RunReport{
		ID:        uuid.New(),
		Timestamp: time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC),
		Renewed:   []string{"a.dpdns.org", "b.dpdns.org"},
		Failed:    []domain.FailedDomain{{Domain: "c.dpdns.org", Reason: "no order control"}},
	}
	require.NoError(t, s.SaveReport(ctx, report))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(raw, &rec))
	require.EqualValues(t, 2, rec["renewed_count"])
	require.EqualValues(t, 1, rec["failed_count"])
	require.Equal(t, []any{"c.dpdns.org"}, rec["failed_domains"])
	require.Equal(t, "2025-07-10T08:00:00Z", rec["timestamp"])

	got, err := s.LastReport(ctx)
	require.NoError(t, err)
	require.Equal(t, report.ID, got.ID)
	require.Equal(t, report.Renewed, got.Renewed)
	require.Equal(t, report.Failed, got.Failed)
	require.Empty(t, got.NotNeeded)
}
