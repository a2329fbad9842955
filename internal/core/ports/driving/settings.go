package driving

import "github.com/custodia-labs/docchat-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then environment overrides.
	Get() domain.AppSettings

	// Set validates and persists one setting by key.
	Set(key, value string) error

	// Keys lists the settable keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
