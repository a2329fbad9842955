package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestSettingsShow(t *testing.T) {
	t.Setenv("DOCCHAT_FIREBASE_API_KEY", "")
	t.Setenv("DOCCHAT_GOOGLE_CLIENT_ID", "")
	setupTestServices(t)

	out, _, err := executeCommand(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "[API]")
	assert.Contains(t, out, "[Upload]")
	assert.Contains(t, out, "API Key:    (not set)")
	assert.Contains(t, out, "Client ID:  -")
	assert.Contains(t, out, "Markdown:   false")
}

func TestSettingsShow_MasksAPIKey(t *testing.T) {
	t.Setenv("DOCCHAT_FIREBASE_API_KEY", "")
	env := setupTestServices(t)
	require.NoError(t, env.settings.Set("firebase.api_key", "AIzaSyExampleKey1234"))

	out, _, err := executeCommand(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "API Key:    AIza...1234")
	assert.NotContains(t, out, "AIzaSyExampleKey1234")
}

func TestSettingsSet(t *testing.T) {
	t.Setenv("DOCCHAT_API_BASE_URL", "")
	env := setupTestServices(t)

	out, _, err := executeCommand(t, "", "settings", "set", "api.base_url", "https://docchat.example.com")

	require.NoError(t, err)
	assert.Contains(t, out, "Set api.base_url")
	assert.Equal(t, "https://docchat.example.com", env.settings.Get().API.BaseURL)
}

func TestSettingsSet_UnknownKey(t *testing.T) {
	setupTestServices(t)

	_, _, err := executeCommand(t, "", "settings", "set", "nope", "1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSet_RequiresTwoArgs(t *testing.T) {
	setupTestServices(t)

	_, _, err := executeCommand(t, "", "settings", "set", "api.base_url")

	assert.Error(t, err)
}

func TestSettingsKeys(t *testing.T) {
	setupTestServices(t)

	out, _, err := executeCommand(t, "", "settings", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "api.base_url\n")
	assert.Contains(t, out, "display.markdown\n")
	assert.Contains(t, out, "google.client_id\n")
}

func TestSettings_NotConfigured(t *testing.T) {
	setupTestServices(t)
	SetServices(Services{})

	_, _, err := executeCommand(t, "", "settings", "keys")

	assert.EqualError(t, err, "settings service not configured")
}
