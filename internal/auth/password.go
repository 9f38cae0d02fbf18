package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/mmynk/glasspos/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 3 characters")
)

// MinPasswordLength matches the shortest seeded password.
const MinPasswordLength = 3

// UserSource defines the lookup the authenticator needs from the ledger.
// This allows the authenticator to be independent of the storage implementation.
type UserSource interface {
	UserByUsername(username string) (models.User, bool)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	users UserSource
}

var _ Authenticator = (*PasswordAuthenticator)(nil)

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(users UserSource) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(strings.TrimSpace(credential)) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Authenticate matches the username exactly and compares the password
// against the stored bcrypt hash.
func (a *PasswordAuthenticator) Authenticate(_ context.Context, username, credential string) (*models.User, error) {
	user, ok := a.users.UserByUsername(username)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if user.PasswordHash == "" || !models.CheckPassword(user.PasswordHash, credential) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
