package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService drives the identity provider and registers new users with
// the backend. Identity changes reach the session store through the
// provider's notifications, never directly from here.
type AuthService struct {
	provider driven.IdentityProvider
	users    driven.UserAPI
	session  *SessionStore
}

// NewAuthService creates an auth service and subscribes session to the
// provider's identity notifications.
func NewAuthService(provider driven.IdentityProvider, users driven.UserAPI, session *SessionStore) *AuthService {
	provider.Subscribe(
		func(ctx context.Context, identity *domain.Identity) {
			if err := session.OnIdentityChanged(ctx, identity); err != nil {
				logger.Warn("auth: %v", err)
			}
		},
		session.OnProviderError,
	)
	return &AuthService{provider: provider, users: users, session: session}
}

// SignIn authenticates with email and password.
func (s *AuthService) SignIn(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(creds.Email) == "" {
		fields["email"] = "Email is required"
	}
	if creds.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError("invalid sign in form", fields)
	}

	identity, err := s.provider.SignIn(ctx, creds)
	if err != nil {
		return nil, domain.NewAuthError(err)
	}
	return identity, nil
}

// SignUp validates the form, creates the provider account and registers
// the user with the backend.
func (s *AuthService) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.provider.SignUp(ctx, domain.Credentials{Email: req.Email, Password: req.Password}); err != nil {
		return nil, domain.NewAuthError(err)
	}

	profile, err := s.users.RegisterUser(ctx, req)
	if err != nil {
		return nil, domain.NewMutationError("Failed to register user", err)
	}
	return profile, nil
}

// SignInWithGoogle exchanges a Google ID token for a provider session and
// registers the identity with the backend. With an empty googleIDToken the
// current identity is registered as is.
func (s *AuthService) SignInWithGoogle(ctx context.Context, googleIDToken string) (*domain.Profile, error) {
	if googleIDToken != "" {
		if _, err := s.provider.SignInWithGoogle(ctx, googleIDToken); err != nil {
			return nil, domain.NewAuthError(err)
		}
	}
	if s.session.Current() == nil {
		return nil, domain.NewAuthError(domain.ErrNotAuthenticated)
	}
	profile, err := s.users.RegisterGoogleUser(ctx)
	if err != nil {
		return nil, domain.NewMutationError("Failed to register Google user", err)
	}
	return profile, nil
}

// SignOut signs out of the provider.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// Restore resumes a saved provider session. The provider notifies the
// session store with the restored identity, or nil.
func (s *AuthService) Restore(ctx context.Context) error {
	if err := s.provider.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	return nil
}

// Current returns the signed-in identity, or nil.
func (s *AuthService) Current() *domain.Identity {
	return s.session.Current()
}
