package driving

import "github.com/custodia-labs/docbase/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, overridden by the
	// config file, overridden by DOCBASE_* environment variables.
	Get() (*domain.AppSettings, error)

	// Save persists application settings to the config file.
	Save(settings *domain.AppSettings) error

	// Set parses and persists a single dot-notation key, e.g.
	// "chunking.max_size". The resulting settings must validate.
	Set(key, value string) error

	// Validate checks the effective settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Keys lists the recognised setting keys in display order.
	Keys() []string

	// Path returns the config file location.
	Path() string
}
