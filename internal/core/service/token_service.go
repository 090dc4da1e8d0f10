package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
)

// DefaultTokenTTL is the lifetime of a session token.
const DefaultTokenTTL = 12 * time.Hour

// ErrMissingSecret is returned when the token signing secret is empty.
var ErrMissingSecret = errors.New("token signing secret is empty")

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now as the source of issue and verification time.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for username valid for the configured TTL.
func (s *TokenService) Issue(username string) (ports.Token, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return ports.Token{}, fmt.Errorf("sign token: %w", err)
	}
	return ports.Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks the signature before reading any claim, then expiry.
func (s *TokenService) Verify(raw string) (domain.Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)

	// Header and claims segments are checked on their own so that a broken
	// signature segment is never reported as a malformed token.
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return domain.Identity{}, domain.ErrTokenMalformed
	}
	if _, _, err := parser.ParseUnverified(parts[0]+"."+parts[1]+".", &sessionClaims{}); errors.Is(err, jwt.ErrTokenMalformed) {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}

	var claims sessionClaims
	_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenMalformed):
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrTokenSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
	default:
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}

	username := claims.Username
	if username == "" {
		username = claims.Subject
	}
	if username == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing username claim", domain.ErrTokenMalformed)
	}

	identity := domain.Identity{Username: username, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, nil
}
