package auth

import (
	"context"

	"github.com/mmynk/patungan/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// The service layer only talks to this interface, so another credential type
// can replace passwords without touching the handlers.
type Authenticator interface {
	// Register creates a new user account. The credential format depends on the implementation.
	Register(ctx context.Context, username, email, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
