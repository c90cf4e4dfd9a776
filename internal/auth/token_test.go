package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func newTestSigner(t *testing.T) *TokenSigner {
	t.Helper()
	s, err := NewTokenSigner("test-secret", "quillgate-test", 10*time.Minute, NewULID)
	if err != nil {
		t.Fatalf("NewTokenSigner failed: %v", err)
	}
	return s
}

func TestTokenSigner_SignVerify(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)

	tok, err := s.Sign("a@x.com")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if tok.AccessToken == "" {
		t.Fatal("expected non-empty token")
	}

	subject, err := s.Verify(tok.AccessToken)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != "a@x.com" {
		t.Errorf("expected subject a@x.com, got %s", subject)
	}
}

func TestTokenSigner_Claims(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	tok, _ := s.Sign("a@x.com")

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok.AccessToken, claims); err != nil {
		t.Fatalf("ParseUnverified failed: %v", err)
	}

	if claims.UserID != "a@x.com" {
		t.Errorf("expected user_id claim a@x.com, got %s", claims.UserID)
	}
	if claims.Issuer != "quillgate-test" {
		t.Errorf("unexpected issuer: %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("expected jti to be set")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Sub(claims.IssuedAt.Time) != 10*time.Minute {
		t.Errorf("expected 10m lifetime, got %v", claims.ExpiresAt)
	}
}

func TestTokenSigner_Expired(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tok, err := s.Sign("a@x.com")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	s.now = time.Now
	_, err = s.Verify(tok.AccessToken)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTokenSigner_Rejects(t *testing.T) {
	t.Parallel()

	s := newTestSigner(t)
	tok, _ := s.Sign("a@x.com")

	other, err := NewTokenSigner("other-secret", "quillgate-test", time.Minute, nil)
	if err != nil {
		t.Fatalf("NewTokenSigner failed: %v", err)
	}
	foreign, _ := other.Sign("a@x.com")

	parts := strings.Split(tok.AccessToken, ".")
	tamperedPayload := parts[0] + "." + parts[1] + "x." + parts[2]

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	noneToken, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", foreign.AccessToken},
		{"tampered payload", tamperedPayload},
		{"none algorithm", noneToken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := s.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestNewTokenSigner_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenSigner("", "iss", time.Minute, nil); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewTokenSigner("secret", "iss", 0, nil); err == nil {
		t.Error("expected error for zero ttl")
	}
}
