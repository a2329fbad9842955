package services

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIBaseURL       = "api.base_url"
	keyAPITimeout       = "api.timeout_seconds"
	keyAPIRateLimit     = "api.rate_limit"
	keyAPIBurst         = "api.burst"
	keyUploadMaxSize    = "upload.max_size"
	keyUploadExtensions = "upload.extensions"
	keyFirebaseAPIKey   = "firebase.api_key"
	keyFirebaseEndpoint = "firebase.endpoint"
	keyFirebaseTokenURL = "firebase.token_endpoint"
	keyGoogleClientID   = "google.client_id"
	keyGoogleSecret     = "google.client_secret"
	keyDisplayMarkdown  = "display.markdown"
	keyDisplayWordWrap  = "display.word_wrap"
	envAPIBaseURL       = "DOCCHAT_API_BASE_URL"
	envFirebaseAPIKey   = "DOCCHAT_FIREBASE_API_KEY"
	envFirebaseEndpoint = "DOCCHAT_FIREBASE_ENDPOINT"
	envFirebaseTokenURL = "DOCCHAT_FIREBASE_TOKEN_ENDPOINT"
	envGoogleClientID   = "DOCCHAT_GOOGLE_CLIENT_ID"
	envGoogleSecret     = "DOCCHAT_GOOGLE_CLIENT_SECRET"
)

// setter parses and stores one key.
type setter func(s *SettingsService, value string) error

var setters = map[string]setter{
	keyAPIBaseURL:       setURL(keyAPIBaseURL),
	keyAPITimeout:       setPositiveInt(keyAPITimeout),
	keyAPIRateLimit:     setRate,
	keyAPIBurst:         setPositiveInt(keyAPIBurst),
	keyUploadMaxSize:    setSize,
	keyUploadExtensions: setExtensions,
	keyFirebaseAPIKey:   setString(keyFirebaseAPIKey),
	keyFirebaseEndpoint: setURL(keyFirebaseEndpoint),
	keyFirebaseTokenURL: setURL(keyFirebaseTokenURL),
	keyGoogleClientID:   setString(keyGoogleClientID),
	keyGoogleSecret:     setString(keyGoogleSecret),
	keyDisplayMarkdown:  setBool(keyDisplayMarkdown),
	keyDisplayWordWrap:  setPositiveInt(keyDisplayWordWrap),
}

// SettingsService resolves settings from defaults, the config store and
// environment overrides, in that order.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get returns the effective settings.
func (s *SettingsService) Get() domain.AppSettings {
	settings := domain.DefaultSettings()

	settings.API.BaseURL = s.getString(keyAPIBaseURL, envAPIBaseURL, settings.API.BaseURL)
	if secs := s.configStore.GetInt(keyAPITimeout); secs > 0 {
		settings.API.Timeout = time.Duration(secs) * time.Second
	}
	if _, ok := s.configStore.Get(keyAPIRateLimit); ok {
		settings.API.RateLimit = s.configStore.GetFloat(keyAPIRateLimit)
	}
	if burst := s.configStore.GetInt(keyAPIBurst); burst > 0 {
		settings.API.Burst = burst
	}

	settings.Upload.MaxSize = s.getString(keyUploadMaxSize, "", settings.Upload.MaxSize)
	if exts := s.configStore.GetStringSlice(keyUploadExtensions); len(exts) > 0 {
		settings.Upload.Extensions = exts
	}

	settings.Firebase.APIKey = s.getString(keyFirebaseAPIKey, envFirebaseAPIKey, settings.Firebase.APIKey)
	settings.Firebase.Endpoint = s.getString(keyFirebaseEndpoint, envFirebaseEndpoint, settings.Firebase.Endpoint)
	settings.Firebase.TokenEndpoint = s.getString(keyFirebaseTokenURL, envFirebaseTokenURL, settings.Firebase.TokenEndpoint)

	settings.Google.ClientID = s.getString(keyGoogleClientID, envGoogleClientID, "")
	settings.Google.ClientSecret = s.getString(keyGoogleSecret, envGoogleSecret, "")

	if _, ok := s.configStore.Get(keyDisplayMarkdown); ok {
		settings.Display.Markdown = s.configStore.GetBool(keyDisplayMarkdown)
	}
	if wrap := s.configStore.GetInt(keyDisplayWordWrap); wrap > 0 {
		settings.Display.WordWrap = wrap
	}

	return settings
}

// Set validates and persists one setting.
func (s *SettingsService) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return set(s, strings.TrimSpace(value))
}

// Keys lists the settable keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultSettings()
}

// getString resolves env, then config, then fallback.
func (s *SettingsService) getString(key, env, fallback string) string {
	if env != "" {
		if v, ok := s.lookupEnv(env); ok && v != "" {
			return v
		}
	}
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func invalid(key, value, reason string) error {
	return fmt.Errorf("%w: %s=%q: %s", domain.ErrInvalidInput, key, value, reason)
}

func setString(key string) setter {
	return func(s *SettingsService, value string) error {
		return s.configStore.Set(key, value)
	}
}

func setURL(key string) setter {
	return func(s *SettingsService, value string) error {
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return invalid(key, value, "must be an absolute URL")
		}
		return s.configStore.Set(key, value)
	}
}

func setPositiveInt(key string) setter {
	return func(s *SettingsService, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return invalid(key, value, "must be a positive integer")
		}
		return s.configStore.Set(key, int64(n))
	}
}

func setBool(key string) setter {
	return func(s *SettingsService, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalid(key, value, "must be true or false")
		}
		return s.configStore.Set(key, b)
	}
}

func setRate(s *SettingsService, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return invalid(keyAPIRateLimit, value, "must be a non-negative number")
	}
	return s.configStore.Set(keyAPIRateLimit, f)
}

func setSize(s *SettingsService, value string) error {
	if _, err := units.FromHumanSize(value); err != nil {
		return invalid(keyUploadMaxSize, value, "must be a size such as 10MB")
	}
	return s.configStore.Set(keyUploadMaxSize, value)
}

func setExtensions(s *SettingsService, value string) error {
	var exts []string
	for _, ext := range strings.Split(value, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		return invalid(keyUploadExtensions, value, "must list at least one extension")
	}
	return s.configStore.Set(keyUploadExtensions, exts)
}
