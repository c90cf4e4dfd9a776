package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oklog/ulid/v2"
)

// Service implements signup, login and token verification.
type Service struct {
	registry UserRegistry
	signer   *TokenSigner
	logger   *slog.Logger
}

// NewService wires a Service around an explicitly owned registry.
func NewService(registry UserRegistry, signer *TokenSigner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: registry,
		signer:   signer,
		logger:   logger.With("component", "auth.service"),
	}
}

// NewULID returns a new ULID string. Used for user ids and token ids.
func NewULID() string {
	return ulid.Make().String()
}

// Signup appends a user record and returns a token for email.
// Existing records with the same email are left in place.
func (s *Service) Signup(ctx context.Context, email, password string) (Token, error) {
	user, err := s.registry.Register(ctx, email, password)
	if err != nil {
		return Token{}, fmt.Errorf("store user: %w", err)
	}

	s.logger.Info("user signed up", slog.String("user_id", user.ID))

	return s.signer.Sign(email)
}

// Login returns a token when (email, password) matches a registered user.
// A credential mismatch is reported as ok=false with a nil error.
func (s *Service) Login(ctx context.Context, email, password string) (Token, bool, error) {
	user, err := s.registry.FindByCredentials(ctx, email, password)
	if err != nil {
		return Token{}, false, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.logger.Warn("login failed", slog.String("reason", "wrong_credentials"))
		return Token{}, false, nil
	}

	token, err := s.signer.Sign(user.Email)
	if err != nil {
		return Token{}, false, err
	}
	return token, true, nil
}

// Verify returns the token subject or an error wrapping ErrUnauthorized.
func (s *Service) Verify(token string) (string, error) {
	return s.signer.Verify(token)
}
