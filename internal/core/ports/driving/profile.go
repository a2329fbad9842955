package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// ProfileService manages the backend user profile.
type ProfileService interface {
	// Get fetches the profile.
	Get(ctx context.Context) (*domain.Profile, error)

	// Update applies a partial update.
	Update(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error)

	// UploadImage uploads a profile image and returns its URL.
	UploadImage(ctx context.Context, file domain.File) (string, error)

	// Cached returns the last fetched profile, or nil.
	Cached() *domain.Profile
}
