package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// Fallback messages when the server sends no detail.
const (
	msgFetchProfile  = "Failed to fetch user profile"
	msgUpdateProfile = "Failed to update user profile"
	msgUploadImage   = "Failed to upload profile image"
)

// ProfileService manages the backend profile of the signed-in user.
// The cached profile is dropped on every identity change.
type ProfileService struct {
	api driven.UserAPI

	mu      sync.Mutex
	profile *domain.Profile
	epoch   uint64
}

// NewProfileService creates a profile service.
func NewProfileService(api driven.UserAPI) *ProfileService {
	return &ProfileService{api: api}
}

// Get fetches the profile.
func (s *ProfileService) Get(ctx context.Context) (*domain.Profile, error) {
	epoch := s.currentEpoch()
	profile, err := s.api.GetProfile(ctx)
	if err != nil {
		return nil, domain.NewFetchError(msgFetchProfile, err)
	}
	s.cache(epoch, profile)
	return copyProfile(profile), nil
}

// Update applies a partial update. An empty update is rejected locally.
func (s *ProfileService) Update(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	if update.IsEmpty() {
		return nil, domain.NewValidationError("nothing to update", map[string]string{
			"profile": "at least one of name, phone, location or bio is required",
		})
	}

	epoch := s.currentEpoch()
	profile, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, domain.NewMutationError(msgUpdateProfile, err)
	}
	s.cache(epoch, profile)
	return copyProfile(profile), nil
}

// UploadImage uploads a profile image and returns its URL.
func (s *ProfileService) UploadImage(ctx context.Context, file domain.File) (string, error) {
	if file.Content == nil || file.Name == "" {
		return "", domain.NewValidationError("Please select an image", map[string]string{"file": "file is required"})
	}

	epoch := s.currentEpoch()
	url, err := s.api.UploadProfileImage(ctx, file)
	if err != nil {
		return "", domain.NewMutationError(msgUploadImage, err)
	}

	s.mu.Lock()
	if s.epoch == epoch && s.profile != nil {
		s.profile.ImageURL = url
	}
	s.mu.Unlock()
	return url, nil
}

// Cached returns the last fetched profile, or nil.
func (s *ProfileService) Cached() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProfile(s.profile)
}

// HandleIdentity drops the cached profile.
func (s *ProfileService) HandleIdentity(_ *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.profile = nil
}

func (s *ProfileService) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// cache stores profile unless the identity changed since epoch.
func (s *ProfileService) cache(epoch uint64, profile *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch {
		s.profile = copyProfile(profile)
	}
}

func copyProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
