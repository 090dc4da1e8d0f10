package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
)

// AuthService implements registration, login and account resolution.
type AuthService struct {
	users    ports.UserRepository
	creds    ports.CredentialStore
	tokens   ports.TokenService
	throttle ports.LoginThrottle
	audit    ports.AuditSink
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the auth use cases. A nil throttle or audit sink
// disables that concern.
func NewAuthService(
	users ports.UserRepository,
	creds ports.CredentialStore,
	tokens ports.TokenService,
	throttle ports.LoginThrottle,
	audit ports.AuditSink,
	logger zerolog.Logger,
) *AuthService {
	if throttle == nil {
		throttle = noopThrottle{}
	}
	if audit == nil {
		audit = noopAudit{}
	}
	return &AuthService{
		users:    users,
		creds:    creds,
		tokens:   tokens,
		throttle: throttle,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Fullname = strings.TrimSpace(in.Fullname)
	if in.Username == "" || in.Email == "" || in.Fullname == "" || in.Password == "" {
		return nil, domain.ErrMissingFields
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		Fullname:     in.Fullname,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEventRegistered, created.Username, "")
	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	allowed, err := s.throttle.Allowed(ctx, email)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
	} else if !allowed {
		s.record(domain.AuthEventLoginFailure, email, in.RemoteAddr)
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.creds.Authenticate(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if err := s.throttle.RecordFailure(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("record login failure")
		}
		s.record(domain.AuthEventLoginFailure, email, in.RemoteAddr)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("reset login throttle")
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEventLoginSuccess, user.Username, in.RemoteAddr)
	return &ports.LoginResult{Token: token, User: user}, nil
}

// Logout only leaves an audit entry; tokens are not revocable.
func (s *AuthService) Logout(_ context.Context, username, remoteAddr string) {
	if username == "" {
		return
	}
	s.record(domain.AuthEventLoggedOut, username, remoteAddr)
}

func (s *AuthService) ResolveIdentity(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return user, nil
}

func (s *AuthService) record(kind domain.AuthEventType, subject, remoteAddr string) {
	s.audit.Record(domain.AuthEvent{
		Type:       kind,
		Subject:    subject,
		RemoteAddr: remoteAddr,
		OccurredAt: s.now().UTC(),
	})
}

type noopThrottle struct{}

func (noopThrottle) Allowed(context.Context, string) (bool, error) { return true, nil }
func (noopThrottle) RecordFailure(context.Context, string) error  { return nil }
func (noopThrottle) Reset(context.Context, string) error          { return nil }

type noopAudit struct{}

func (noopAudit) Record(domain.AuthEvent) {}
