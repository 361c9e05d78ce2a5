package v1handler

import (
	"context"
	"crypto/rsa"
	"fmt"

	"renewer/internal/api/specs/v1specs"
	"renewer/internal/config"
	"renewer/pkg/serrors"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// SubjectKey holds the verified token subject in the request context.
const SubjectKey contextKey = "subject"

// SubjectFromContext returns the subject stored by HandleBearerAuth.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(SubjectKey).(string)

	return s
}

type SecHandlerOptions struct {
	// PublicKey is the PEM encoded RSA key tokens are verified with. Empty
	// rejects every token.
	PublicKey string
}

func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

type SecHandler struct {
	key    *rsa.PublicKey
	parser *jwt.Parser
}

// Ensure SecHandler implements v1specs.SecurityHandler.
var _ v1specs.SecurityHandler = (*SecHandler)(nil)

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	s := &SecHandler{
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
	if opts == nil || opts.PublicKey == "" {
		return s, nil
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}
	s.key = key

	return s, nil
}

// Enabled reports whether a verification key is configured.
func (s *SecHandler) Enabled() bool { return s.key != nil }

func (s *SecHandler) HandleBearerAuth(
	ctx context.Context,
	_ v1specs.OperationName,
	t v1specs.BearerAuth,
) (context.Context, error) {
	if s.key == nil {
		return ctx, serrors.With(serrors.ErrUnauthorized, "api tokens are not configured")
	}

	var claims jwt.RegisteredClaims
	_, err := s.parser.ParseWithClaims(t.Token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}
	if claims.Subject == "" {
		return ctx, serrors.With(serrors.ErrUnauthorized, "token has no subject")
	}

	return context.WithValue(ctx, SubjectKey, claims.Subject), nil
}
