package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
)

// DefaultBcryptCost is the work factor applied to new password hashes.
const DefaultBcryptCost = 12

// CredentialStore hashes passwords on the write path and verifies them
// against stored accounts on the read path.
type CredentialStore struct {
	users ports.UserRepository
	cost  int
	// dummyHash is compared against when the email is unknown so both
	// outcomes spend roughly the same time in bcrypt.
	dummyHash []byte
}

// NewCredentialStore returns a CredentialStore hashing with the given bcrypt
// cost. A cost outside bcrypt's accepted range is rejected.
func NewCredentialStore(users ports.UserRepository, cost int) (*CredentialStore, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &CredentialStore{users: users, cost: cost, dummyHash: dummy}, nil
}

// Hash returns the bcrypt hash of plaintext.
func (s *CredentialStore) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the password of the
// account registered with email.
func (s *CredentialStore) VerifyPassword(ctx context.Context, email, plaintext string) (bool, error) {
	user, err := s.Authenticate(ctx, email, plaintext)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Authenticate returns the account matching email and plaintext, or nil when
// there is none. Only store failures produce an error.
func (s *CredentialStore) Authenticate(ctx context.Context, email, plaintext string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(plaintext))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) != nil {
		return nil, nil
	}
	return user, nil
}
