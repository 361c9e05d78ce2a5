// Package redisstore keeps the session token under a single redis key so
// several hosts taking turns running the renewer share one login.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"renewer/pkg/domain"
	"renewer/pkg/logger"
	"renewer/pkg/sessionstore"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultKey is the key used when none is configured.
const DefaultKey = "renewer:session"

// Store is a redis backed sessionstore.Store.
type Store struct {
	rdb *redis.Client
	key string
}

var _ sessionstore.Store = (*Store)(nil)

// New creates a Store on rdb. The token never expires in redis; validity is
// decided by replaying it.
func New(rdb *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}

	return &Store{rdb: rdb, key: key}
}

// Connect parses a redis URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("could not parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()

		return nil, fmt.Errorf("could not ping redis: %w", err)
	}

	return rdb, nil
}

func (s *Store) Save(ctx context.Context, token domain.SessionToken) error {
	b, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("could not marshal session token: %w", err)
	}

	if err := s.rdb.Set(ctx, s.key, b, 0).Err(); err != nil {
		return fmt.Errorf("could not save session token: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context) (domain.SessionToken, bool) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return domain.SessionToken{}, false
	case err != nil:
		logger.Warn(ctx, "could not read session from redis", zap.String("key", s.key), zap.Error(err))

		return domain.SessionToken{}, false
	}

	var token domain.SessionToken
	if err := json.Unmarshal(b, &token); err != nil {
		logger.Warn(ctx, "corrupt session in redis", zap.String("key", s.key), zap.Error(err))

		return domain.SessionToken{}, false
	}
	if token.Empty() {
		return domain.SessionToken{}, false
	}

	return token, true
}
