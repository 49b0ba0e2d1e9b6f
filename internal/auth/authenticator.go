package auth

import (
	"context"

	"github.com/yatube/yatube/internal/models"
)

// Authenticator creates accounts and checks their credentials.
// PasswordAuthenticator is the only implementation; the service layer
// depends on this interface so tests and the CLI can share it.
type Authenticator interface {
	Register(ctx context.Context, username, credential string) (*models.User, error)

	// Authenticate returns ErrInvalidCredentials for an unknown user or a wrong credential.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
