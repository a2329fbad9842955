package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// SessionStore mirrors the identity provider's current identity.
type SessionStore interface {
	// OnIdentityChanged stores or clears the identity, persists its
	// projection and notifies subscribers.
	OnIdentityChanged(ctx context.Context, identity *domain.Identity) error

	// OnProviderError records a provider failure and clears the identity.
	OnProviderError(ctx context.Context, err error)

	// Reload re-reads the persisted identity written by another process.
	Reload(ctx context.Context) error

	// Current returns a copy of the identity, or nil when signed out.
	Current() *domain.Identity

	// Err returns the last provider or persistence error.
	Err() error

	// Subscribe registers a listener. The returned function unsubscribes.
	Subscribe(fn driven.IdentityListener) func()
}
