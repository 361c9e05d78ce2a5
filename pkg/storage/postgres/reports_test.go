package postgres_test

import (
	"context"
	"renewer/pkg/domain"
	"renewer/pkg/serrors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPgSQL_Reports(t *testing.T) {
	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()

	t.Run("no report yet", func(t *testing.T) {
		_, err := pgSQL.LastReport(ctx)
		require.ErrorIs(t, err, serrors.ErrNotFound)
	})

	older := domain.RunReport{
		ID:        uuid.New(),
		Timestamp: time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC),
		NotNeeded: []string{"a.dpdns.org"},
	}
	newer := domain.RunReport{
		ID:        uuid.New(),
		Timestamp: time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC),
		Renewed:   []string{"a.dpdns.org"},
		Failed:    []domain.FailedDomain{{Domain: "b.dpdns.org", Reason: "confirmation not found"}},
	}

	t.Run("latest wins", func(t *testing.T) {
		require.NoError(t, pgSQL.SaveReport(ctx, newer))
		require.NoError(t, pgSQL.SaveReport(ctx, older))

		got, err := pgSQL.LastReport(ctx)
		require.NoError(t, err)
		require.Equal(t, newer.ID, got.ID)
		require.True(t, newer.Timestamp.Equal(got.Timestamp))
		require.Equal(t, newer.Renewed, got.Renewed)
		require.Equal(t, newer.Failed, got.Failed)
		require.Empty(t, got.NotNeeded)
	})

	t.Run("save overwrites same run", func(t *testing.T) {
		updated := newer
		updated.Renewed = []string{"a.dpdns.org", "c.dpdns.org"}
		require.NoError(t, pgSQL.SaveReport(ctx, updated))

		got, err := pgSQL.LastReport(ctx)
		require.NoError(t, err)
		require.Equal(t, updated.Renewed, got.Renewed)
	})
}
