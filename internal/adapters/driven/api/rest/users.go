package rest

import (
	"context"
	"net/http"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// registerResponse accepts the profile either bare or under "user".
type registerResponse struct {
	profileJSON
	User *profileJSON `json:"user"`
}

func (r registerResponse) profile() *domain.Profile {
	if r.User != nil {
		return r.User.toDomain()
	}
	return r.profileJSON.toDomain()
}

// RegisterUser creates the backend user record after provider sign up.
func (c *Client) RegisterUser(ctx context.Context, req domain.SignUpRequest) (*domain.Profile, error) {
	r, err := jsonRequest(http.MethodPost, "/users/auth/signup", registerRequest{
		Email:    req.Email,
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		Bio:      req.Bio,
	})
	if err != nil {
		return nil, err
	}

	var resp registerResponse
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return resp.profile(), nil
}

// RegisterGoogleUser creates or fetches the record for a Google identity.
// The backend reads the user from the bearer token.
func (c *Client) RegisterGoogleUser(ctx context.Context) (*domain.Profile, error) {
	var resp registerResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/auth/google-signup"}, &resp); err != nil {
		return nil, err
	}
	return resp.profile(), nil
}

// GetProfile returns the current user's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var resp profileJSON
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/profile"}, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// UpdateProfile applies a partial update. Only set fields are sent.
func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	r, err := jsonRequest(http.MethodPatch, "/users/profile", profileUpdateRequest{
		Name:     update.Name,
		Phone:    update.Phone,
		Location: update.Location,
		Bio:      update.Bio,
	})
	if err != nil {
		return nil, err
	}

	var resp profileJSON
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// UploadProfileImage uploads an avatar and returns its URL.
func (c *Client) UploadProfileImage(ctx context.Context, file domain.File) (string, error) {
	r, err := multipartRequest("/users/profile/upload-image", file, nil)
	if err != nil {
		return "", err
	}

	var resp imageResponse
	if err := c.do(ctx, r, &resp); err != nil {
		return "", err
	}
	if resp.ProfileImage != "" {
		return resp.ProfileImage, nil
	}
	return resp.ImageURL, nil
}
