package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func newTestSettings(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	s := NewSettingsService(store)
	s.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return s, store
}

func TestSettingsService_Defaults(t *testing.T) {
	s, _ := newTestSettings(nil)

	assert.Equal(t, domain.DefaultSettings(), s.Get())
	assert.Equal(t, domain.DefaultSettings(), s.GetDefaults())
}

func TestSettingsService_SetAndGet(t *testing.T) {
	s, _ := newTestSettings(nil)

	require.NoError(t, s.Set("api.base_url", "https://api.example.com"))
	require.NoError(t, s.Set("api.timeout_seconds", "15"))
	require.NoError(t, s.Set("api.rate_limit", "2.5"))
	require.NoError(t, s.Set("api.burst", "3"))
	require.NoError(t, s.Set("upload.max_size", "25MB"))
	require.NoError(t, s.Set("upload.extensions", "pdf, .MD"))
	require.NoError(t, s.Set("google.client_id", "cid.apps.googleusercontent.com"))
	require.NoError(t, s.Set("display.markdown", "false"))
	require.NoError(t, s.Set("display.word_wrap", "100"))

	got := s.Get()
	assert.Equal(t, "https://api.example.com", got.API.BaseURL)
	assert.Equal(t, 15*time.Second, got.API.Timeout)
	assert.InDelta(t, 2.5, got.API.RateLimit, 0.0001)
	assert.Equal(t, 3, got.API.Burst)
	assert.Equal(t, "25MB", got.Upload.MaxSize)
	assert.Equal(t, []string{".pdf", ".md"}, got.Upload.Extensions)
	assert.Equal(t, "cid.apps.googleusercontent.com", got.Google.ClientID)
	assert.False(t, got.Display.Markdown)
	assert.Equal(t, 100, got.Display.WordWrap)
}

func TestSettingsService_ZeroRateLimitDisablesThrottling(t *testing.T) {
	s, _ := newTestSettings(nil)

	require.NoError(t, s.Set("api.rate_limit", "0"))

	assert.Zero(t, s.Get().API.RateLimit)
}

func TestSettingsService_EnvOverridesConfig(t *testing.T) {
	s, _ := newTestSettings(map[string]string{
		"DOCCHAT_API_BASE_URL":     "http://env:9000",
		"DOCCHAT_FIREBASE_API_KEY": "env-key",
	})
	require.NoError(t, s.Set("api.base_url", "http://config:8000"))
	require.NoError(t, s.Set("firebase.api_key", "config-key"))

	got := s.Get()

	assert.Equal(t, "http://env:9000", got.API.BaseURL)
	assert.Equal(t, "env-key", got.Firebase.APIKey)
}

func TestSettingsService_EmptyEnvIgnored(t *testing.T) {
	s, _ := newTestSettings(map[string]string{"DOCCHAT_API_BASE_URL": ""})

	assert.Equal(t, domain.DefaultAPIBaseURL, s.Get().API.BaseURL)
}

func TestSettingsService_SetInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"api.base_url", "not a url"},
		{"api.timeout_seconds", "0"},
		{"api.timeout_seconds", "soon"},
		{"api.rate_limit", "-1"},
		{"api.burst", "many"},
		{"upload.max_size", "big"},
		{"upload.extensions", " , "},
		{"display.markdown", "sometimes"},
		{"no.such.key", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s, store := newTestSettings(nil)

			err := s.Set(tt.key, tt.value)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, ok := store.Get(tt.key)
			assert.False(t, ok)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	s, _ := newTestSettings(nil)

	keys := s.Keys()

	assert.IsNonDecreasing(t, keys)
	assert.Contains(t, keys, "api.base_url")
	assert.Contains(t, keys, "firebase.api_key")
	assert.Contains(t, keys, "google.client_secret")
}
