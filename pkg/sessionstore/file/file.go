// Package file stores the session token in a local JSON file, optionally
// sealed with a passphrase.
package file

import (
	"context"
	"encoding/json"
	"fmt"

	"renewer/pkg/atomicfile"
	"renewer/pkg/domain"
	"renewer/pkg/logger"
	"renewer/pkg/sessionstore"

	"go.uber.org/zap"
)

const fileMode = 0o600

// Store keeps the token at a single path.
type Store struct {
	path       string
	passphrase string
}

var _ sessionstore.Store = (*Store)(nil)

// New creates a Store at path. A non-empty passphrase encrypts the file.
func New(path, passphrase string) *Store {
	return &Store{path: path, passphrase: passphrase}
}

func (s *Store) Save(_ context.Context, token domain.SessionToken) error {
	b, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("could not marshal session token: %w", err)
	}

	if s.passphrase != "" {
		if b, err = seal(s.passphrase, b); err != nil {
			return fmt.Errorf("could not encrypt session token: %w", err)
		}
	}

	if err := atomicfile.WriteFile(s.path, b, fileMode); err != nil {
		return fmt.Errorf("could not save session token: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context) (domain.SessionToken, bool) {
	b, err := atomicfile.ReadFile(s.path)
	if err != nil {
		logger.Warn(ctx, "could not read session file", zap.String("path", s.path), zap.Error(err))

		return domain.SessionToken{}, false
	}
	if b == nil {
		return domain.SessionToken{}, false
	}

	if s.passphrase != "" {
		if b, err = open(s.passphrase, b); err != nil {
			logger.Warn(ctx, "could not decrypt session file", zap.String("path", s.path), zap.Error(err))

			return domain.SessionToken{}, false
		}
	}

	var token domain.SessionToken
	if err := json.Unmarshal(b, &token); err != nil {
		logger.Warn(ctx, "corrupt session file", zap.String("path", s.path), zap.Error(err))

		return domain.SessionToken{}, false
	}
	if token.Empty() {
		return domain.SessionToken{}, false
	}

	return token, true
}
