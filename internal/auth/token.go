package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrUnauthorized is the umbrella for every token rejection.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTokenExpired is returned for a well-signed token past its expiry.
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)
	// ErrInvalidToken is returned for missing, malformed or tampered tokens.
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

// Claims are the JWT claims carried by every access token.
// UserID mirrors the subject for clients that read the legacy claim name.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Token is a signed access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"-"`
}

// TokenSigner signs and verifies HS256 access tokens.
type TokenSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
}

// NewTokenSigner returns a signer. ttl must be positive.
func NewTokenSigner(secret, issuer string, ttl time.Duration, newID func() string) (*TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &TokenSigner{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
		newID:  newID,
	}, nil
}

// Sign issues a token for subject.
func (s *TokenSigner) Sign(subject string) (Token, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: subject,
	}
	if s.newID != nil {
		claims.ID = s.newID()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks signature, algorithm and expiry and returns the subject.
func (s *TokenSigner) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	// Expiry is also checked against the signer clock used by Sign.
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return "", ErrTokenExpired
	}

	return claims.Subject, nil
}
