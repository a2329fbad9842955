package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestProfileShow(t *testing.T) {
	env := setupTestServices(t)
	env.profile.profile = domain.Profile{Email: "ada@example.com", Name: "Ada", Location: "London"}

	for _, args := range [][]string{{"profile"}, {"profile", "show"}} {
		out, _, err := executeCommand(t, "", args...)

		require.NoError(t, err)
		assert.Contains(t, out, "Email:    ada@example.com")
		assert.Contains(t, out, "Name:     Ada")
		assert.Contains(t, out, "Phone:    -")
		assert.Contains(t, out, "Location: London")
	}
}

func TestProfileShow_Failure(t *testing.T) {
	env := setupTestServices(t)
	env.profile.err = domain.NewFetchError("Failed to fetch profile", nil)

	_, _, err := executeCommand(t, "", "profile", "show")

	assert.EqualError(t, err, "Failed to fetch profile")
}

func TestProfileUpdate_OnlyChangedFlags(t *testing.T) {
	env := setupTestServices(t)
	env.profile.profile = domain.Profile{Email: "ada@example.com", Name: "Ada", Bio: "Mathematician"}

	out, _, err := executeCommand(t, "", "profile", "update", "--location", "Paris", "--phone", "")

	require.NoError(t, err)
	require.NotNil(t, env.profile.update)
	assert.Nil(t, env.profile.update.Name)
	assert.Nil(t, env.profile.update.Bio)
	require.NotNil(t, env.profile.update.Location)
	assert.Equal(t, "Paris", *env.profile.update.Location)
	require.NotNil(t, env.profile.update.Phone)
	assert.Empty(t, *env.profile.update.Phone)
	assert.Contains(t, out, "Profile updated")
	assert.Contains(t, out, "Location: Paris")
	assert.Contains(t, out, "Bio:      Mathematician")
}

func TestProfileUpdate_Validation(t *testing.T) {
	env := setupTestServices(t)
	env.profile.err = domain.NewValidationError("Nothing to update", map[string]string{"profile": "no fields given"})

	_, stderr, err := executeCommand(t, "", "profile", "update")

	require.Error(t, err)
	assert.Contains(t, stderr, "profile: no fields given")
}

func TestProfileUploadImage(t *testing.T) {
	env := setupTestServices(t)
	env.profile.imageURL = "https://files.example.com/ada.png"
	path := writeTempFile(t, "ada.png", "png-bytes")

	out, _, err := executeCommand(t, "", "profile", "upload-image", path)

	require.NoError(t, err)
	require.NotNil(t, env.profile.image)
	assert.Equal(t, "ada.png", env.profile.image.Name)
	assert.Contains(t, out, "Profile image uploaded: https://files.example.com/ada.png")
}

func TestProfileUploadImage_Failure(t *testing.T) {
	env := setupTestServices(t)
	env.profile.err = errors.New("Failed to upload image")
	path := writeTempFile(t, "ada.png", "png-bytes")

	_, _, err := executeCommand(t, "", "profile", "upload-image", path)

	assert.EqualError(t, err, "Failed to upload image")
}

func TestProfile_NotConfigured(t *testing.T) {
	setupTestServices(t)
	SetServices(Services{})

	_, _, err := executeCommand(t, "", "profile")

	assert.EqualError(t, err, "profile service not configured")
}
