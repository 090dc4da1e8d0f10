package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
)

type authFixture struct {
	svc      *AuthService
	users    *stubUserRepo
	tokens   *TokenService
	throttle *stubThrottle
	audit    *recordingAudit
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newStubUserRepo()
	creds := newTestCredentialStore(t, users)
	tokens, err := NewTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	throttle := newStubThrottle(3)
	audit := &recordingAudit{}
	return &authFixture{
		svc:      NewAuthService(users, creds, tokens, throttle, audit, zerolog.Nop()),
		users:    users,
		tokens:   tokens,
		throttle: throttle,
		audit:    audit,
	}
}

func (f *authFixture) register(t *testing.T) *domain.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Username: "ana",
		Email:    "ana@example.com",
		Fullname: "Ana Lima",
		Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t)

	if user.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if got := f.audit.types(); len(got) != 1 || got[0] != domain.AuthEventRegistered {
		t.Fatalf("unexpected audit trail %v", got)
	}
}

func TestAuthService_Register_Conflict(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	for _, in := range []ports.RegisterInput{
		{Username: "ana", Email: "other@example.com", Fullname: "X", Password: "pass1234"},
		{Username: "other", Email: "ana@example.com", Fullname: "X", Password: "pass1234"},
	} {
		if _, err := f.svc.Register(context.Background(), in); !errors.Is(err, domain.ErrUserExists) {
			t.Fatalf("expected ErrUserExists for %+v, got %v", in, err)
		}
	}
	if len(f.users.users) != 1 {
		t.Fatalf("expected a single stored user, got %d", len(f.users.users))
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Username: "  ", Email: "a@b.c", Fullname: "A", Password: "x"})
	if !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	result, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "ana@example.com", Password: "pass1234"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.User.Username != "ana" {
		t.Fatalf("unexpected user %q", result.User.Username)
	}
	identity, err := f.tokens.Verify(result.Token.Value)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if identity.Username != "ana" {
		t.Fatalf("token carries %q", identity.Username)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	cases := []ports.LoginInput{
		{Email: "ana@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "pass1234"},
	}
	for _, in := range cases {
		result, err := f.svc.Login(context.Background(), in)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %s, got %v", in.Email, err)
		}
		if result != nil {
			t.Fatalf("expected no token for %s", in.Email)
		}
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@example.com", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@example.com", Password: "pass1234"}); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	f.throttle.failures = map[string]int{}
	if _, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@example.com", Password: "pass1234"}); err != nil {
		t.Fatalf("expected login after window, got %v", err)
	}
}

func TestAuthService_Login_SuccessResetsThrottle(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)
	ctx := context.Background()

	_, _ = f.svc.Login(ctx, ports.LoginInput{Email: "ana@example.com", Password: "wrong"})
	if _, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@example.com", Password: "pass1234"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if n := f.throttle.failures["ana@example.com"]; n != 0 {
		t.Fatalf("expected counter reset, got %d", n)
	}
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t)

	user, err := f.svc.ResolveIdentity(context.Background(), "ana")
	if err != nil || user.Email != "ana@example.com" {
		t.Fatalf("unexpected result %v, %v", user, err)
	}
	if _, err := f.svc.ResolveIdentity(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_NilCollaboratorsAreOptional(t *testing.T) {
	users := newStubUserRepo()
	tokens, _ := NewTokenService("secret", time.Hour)
	svc := NewAuthService(users, newTestCredentialStore(t, users), tokens, nil, nil, zerolog.Nop())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "a", Email: "a@x.io", Fullname: "A", Password: "pw"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@x.io", Password: "pw"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	svc.Logout(context.Background(), "a", "")
}
