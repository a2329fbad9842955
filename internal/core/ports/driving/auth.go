package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// AuthService drives sign in, sign up and sign out.
type AuthService interface {
	// SignIn authenticates with the identity provider.
	SignIn(ctx context.Context, creds domain.Credentials) (*domain.Identity, error)

	// SignUp validates the form, creates the provider account and
	// registers the user with the backend.
	SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Profile, error)

	// SignInWithGoogle signs in with a Google ID token, when given, and
	// registers the identity with the backend.
	SignInWithGoogle(ctx context.Context, googleIDToken string) (*domain.Profile, error)

	// SignOut signs out of the provider.
	SignOut(ctx context.Context) error

	// Restore resumes a saved provider session.
	Restore(ctx context.Context) error

	// Current returns the signed-in identity, or nil.
	Current() *domain.Identity
}
