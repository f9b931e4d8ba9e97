package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// SigningKeySize is the HS512 key length in bytes.
const SigningKeySize = 64

const DefaultTokenTTL = 24 * time.Hour

// DeriveSigningKey normalises secret to exactly SigningKeySize bytes:
// shorter secrets are repeated cyclically, longer ones truncated.
func DeriveSigningKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("signing secret must not be empty")
	}
	src := []byte(secret)
	key := make([]byte, SigningKeySize)
	for i := range key {
		key[i] = src[i%len(src)]
	}
	return key, nil
}

// TokenService issues and verifies stateless session tokens bound to an email subject.
type TokenService interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
	Verify(token string) (subject string, err error)
}

type tokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type TokenOption func(*tokenService)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *tokenService) { s.now = now }
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (TokenService, error) {
	key, err := DeriveSigningKey(secret)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &tokenService{key: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *tokenService) Issue(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject must not be empty")
	}
	now := s.now()
	expiresAt := jwt.NewNumericDate(now.Add(s.ttl))
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: expiresAt,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt.Time, nil
}

// Verify returns the subject of a valid token. Expired tokens yield
// ErrTokenExpired; every other failure yields ErrInvalidToken.
func (s *tokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
