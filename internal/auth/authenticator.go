package auth

import (
	"context"

	"github.com/mmynk/glasspos/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, PIN, badge, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if a new credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
