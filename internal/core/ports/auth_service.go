package ports

import (
	"context"
	"time"

	"github.com/bookhive/library-api/internal/core/domain"
)

// RegisterInput carries a validated registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Fullname string
	Password string
}

// LoginInput carries a validated login payload. RemoteAddr is only used for
// the audit trail.
type LoginInput struct {
	Email      string
	Password   string
	RemoteAddr string
}

// Token is a signed session token and the instant it stops being accepted.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token Token
	User  *domain.User
}

// AuthService implements registration, login and account resolution.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, username, remoteAddr string)
	// ResolveIdentity returns the account a decoded token refers to, or
	// domain.ErrUserNotFound when it no longer exists.
	ResolveIdentity(ctx context.Context, username string) (*domain.User, error)
}

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	Issue(username string) (Token, error)
	// Verify returns one of domain.ErrTokenMalformed,
	// domain.ErrTokenSignatureInvalid or domain.ErrTokenExpired on failure.
	Verify(raw string) (domain.Identity, error)
}

// CredentialStore verifies and produces password hashes for stored accounts.
type CredentialStore interface {
	// VerifyPassword fails closed: an unknown email yields false and no error.
	VerifyPassword(ctx context.Context, email, plaintext string) (bool, error)
	// Authenticate is VerifyPassword returning the matched account, or nil
	// when the email is unknown or the password does not match.
	Authenticate(ctx context.Context, email, plaintext string) (*domain.User, error)
	Hash(plaintext string) (string, error)
}

// LoginThrottle limits repeated failed logins for the same subject.
type LoginThrottle interface {
	Allowed(ctx context.Context, subject string) (bool, error)
	RecordFailure(ctx context.Context, subject string) error
	Reset(ctx context.Context, subject string) error
}
