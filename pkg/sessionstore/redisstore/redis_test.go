package redisstore_test

import (
	"context"
	"renewer/pkg/domain"
	"renewer/pkg/sessionstore/redisstore"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	s := redisstore.New(rdb, "")

	_, ok := s.Load(ctx)
	require.False(t, ok)

	token := domain.SessionToken{
		Cookies:    []domain.Cookie{{Name: "sid", Value: "v", Domain: "dash.domain.digitalplat.org", Path: "/"}},
		CapturedAt: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Source:     "direct",
	}
	require.NoError(t, s.Save(ctx, token))

	require.True(t, mr.Exists(redisstore.DefaultKey))
	require.Zero(t, mr.TTL(redisstore.DefaultKey))

	got, ok := s.Load(ctx)
	require.True(t, ok)
	require.Equal(t, token, got)
}

func TestStore_CorruptValue(t *testing.T) {
	mr, rdb := newTestRedis(t)
	require.NoError(t, mr.Set("custom:key", "garbage"))

	_, ok := redisstore.New(rdb, "custom:key").Load(context.Background())
	require.False(t, ok)
}

func TestStore_Unavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	_, ok := redisstore.New(rdb, "").Load(context.Background())
	require.False(t, ok)
}

func TestConnect(t *testing.T) {
	mr, _ := newTestRedis(t)

	rdb, err := redisstore.Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NoError(t, rdb.Close())

	_, err = redisstore.Connect(context.Background(), "::not a url")
	require.Error(t, err)
}
