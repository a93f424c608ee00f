package driving

import "github.com/custodia-labs/patchsync/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the defaults overlaid with stored configuration and the
	// API token.
	Get() (domain.Settings, error)

	// Set parses raw for key and persists it.
	Set(key, raw string) error

	// Keys lists the configuration keys Set accepts.
	Keys() []string

	// Validate checks settings after flag overrides are applied.
	Validate(settings domain.Settings) error

	// Path returns where configuration is stored.
	Path() string
}
