package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// IdentityListener receives identity changes. A nil identity means signed out.
type IdentityListener func(ctx context.Context, identity *domain.Identity)

// IdentityErrorListener receives failures while resolving the identity.
type IdentityErrorListener func(ctx context.Context, err error)

// IdentityProvider is the external authentication provider.
// It owns token issuance and refresh; the client never retries on its behalf.
type IdentityProvider interface {
	// SignIn authenticates with email and password.
	SignIn(ctx context.Context, creds domain.Credentials) (*domain.Identity, error)

	// SignUp creates a provider account and signs it in.
	SignUp(ctx context.Context, creds domain.Credentials) (*domain.Identity, error)

	// SignInWithGoogle exchanges a Google ID token for a provider session.
	SignInWithGoogle(ctx context.Context, googleIDToken string) (*domain.Identity, error)

	// SignOut forgets the provider session.
	SignOut(ctx context.Context) error

	// Restore resumes a provider session saved by an earlier process and
	// notifies listeners with the result, like a provider's initial
	// state callback. It notifies nil when there is nothing to restore.
	Restore(ctx context.Context) error

	// FreshToken returns a valid token, refreshing it when needed.
	FreshToken(ctx context.Context) (string, error)

	// Subscribe registers listeners for identity changes and errors.
	// The returned function unsubscribes.
	Subscribe(onChange IdentityListener, onError IdentityErrorListener) func()
}
