package cli

import (
	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driving"
)

// Runtime holds the services built for one run.
type Runtime struct {
	Engine driving.Engine

	// Sync is polled for live progress. May be nil.
	Sync driving.SyncOrchestrator
}

// RuntimeFactory builds run services from validated settings.
type RuntimeFactory func(settings domain.Settings) (*Runtime, error)

// SettingsOpener opens the settings service for a config directory.
// An empty directory selects the default location.
type SettingsOpener func(configDir string) (driving.SettingsService, error)

// Service instances, set via SetServices.
var (
	openSettings    SettingsOpener
	newRuntime      RuntimeFactory
	settingsService driving.SettingsService
)

// SetServices configures how the CLI reaches the core.
func SetServices(open SettingsOpener, runtime RuntimeFactory) {
	openSettings = open
	newRuntime = runtime
}
