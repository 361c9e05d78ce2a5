package file_test

import (
	"context"
	"os"
	"path/filepath"
	"renewer/pkg/domain"
	"renewer/pkg/sessionstore/file"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testToken() domain.SessionToken {
	return domain.SessionToken{
		Cookies: []domain.Cookie{
			{Name: "WHMCSy5pKy9aFjA2", Value: "abc", Domain: "dash.domain.digitalplat.org", Path: "/", Secure: true, HTTPOnly: true},
		},
		CapturedAt: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
		Source:     "chromedp",
	}
}

func TestStore_MissingFile(t *testing.T) {
	s := file.New(filepath.Join(t.TempDir(), "session.json"), "")

	_, ok := s.Load(context.Background())
	require.False(t, ok)
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := file.New(filepath.Join(t.TempDir(), "session.json"), "")

	require.NoError(t, s.Save(ctx, testToken()))

	got, ok := s.Load(ctx)
	require.True(t, ok)
	require.Equal(t, testToken(), got)

	// save is an overwrite
	next := testToken()
	next.Source = "rod"
	require.NoError(t, s.Save(ctx, next))

	got, ok = s.Load(ctx)
	require.True(t, ok)
	require.Equal(t, "rod", got.Source)
}

func TestStore_CorruptFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok := file.New(path, "").Load(context.Background())
	require.False(t, ok)
}

func TestStore_Encrypted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, file.New(path, "correct horse").Save(ctx, testToken()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "WHMCSy5pKy9aFjA2")

	got, ok := file.New(path, "correct horse").Load(ctx)
	require.True(t, ok)
	require.Equal(t, testToken(), got)

	_, ok = file.New(path, "battery staple").Load(ctx)
	require.False(t, ok, "a wrong key is a cache miss")
}
