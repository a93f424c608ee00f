package domain

import "time"

// Mode selects what a run does with the listed catalog.
type Mode string

// Available run modes.
const (
	// ModeDownload resolves every item and downloads its files.
	ModeDownload Mode = "download"

	// ModeReport renders the listing as a catalog document.
	ModeReport Mode = "report"
)

// IsValid returns true if the mode is recognised.
func (m Mode) IsValid() bool {
	switch m {
	case ModeDownload, ModeReport:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m Mode) String() string {
	return string(m)
}

// Defaults used when neither the config file nor flags provide a value.
const (
	DefaultBaseURL         = "https://patchstorage.com/api/beta"
	DefaultUserAgent       = "Mozilla/5.0 (compatible; PatchstorageClient/1.0)"
	DefaultPlatformID      = 154 // Organelle
	DefaultPerPage         = 100
	DefaultOutputDir       = "patches"
	DefaultReportPath      = "patches.org"
	DefaultWorkers         = 1
	DefaultMaxAttempts     = 3
	DefaultDownloadTimeout = 10 * time.Second
	DefaultRetryBackoff    = 2 * time.Second
	DefaultChunkSize       = 1024
)

// TokenEnvVar is the environment variable holding the API token.
const TokenEnvVar = "PATCHSTORAGE_API_TOKEN"

// Settings holds the effective configuration of the application.
// Struct tags are evaluated by the config adapter's validator.
type Settings struct {
	API     APISettings
	Sync    SyncSettings
	Report  ReportSettings
	Metrics MetricsSettings
}

// APISettings configures the remote catalog client.
type APISettings struct {
	BaseURL   string `validate:"required,url"`
	UserAgent string `validate:"required"`
	Token     string `validate:"required"`
	PerPage   int    `validate:"min=1,max=100"`

	// RateLimit is the proactive request rate in requests/second. 0 disables it.
	RateLimit float64 `validate:"min=0"`

	// RequestTimeout bounds listing and detail requests. 0 means no timeout.
	RequestTimeout time.Duration `validate:"min=0"`
}

// SyncSettings configures download mode.
type SyncSettings struct {
	PlatformID      int           `validate:"min=1"`
	OutputDir       string        `validate:"required"`
	Workers         int           `validate:"min=1,max=32"`
	MaxAttempts     int           `validate:"min=1"`
	DownloadTimeout time.Duration `validate:"gt=0"`
	RetryBackoff    time.Duration `validate:"min=0"`
}

// ReportSettings configures report mode.
type ReportSettings struct {
	Path string `validate:"required"`
}

// MetricsSettings configures run metrics output.
type MetricsSettings struct {
	// Textfile is a node-exporter textfile path. Empty disables it.
	Textfile string
}

// DefaultSettings returns the settings used before any overrides apply.
func DefaultSettings() Settings {
	return Settings{
		API: APISettings{
			BaseURL:   DefaultBaseURL,
			UserAgent: DefaultUserAgent,
			PerPage:   DefaultPerPage,
		},
		Sync: SyncSettings{
			PlatformID:      DefaultPlatformID,
			OutputDir:       DefaultOutputDir,
			Workers:         DefaultWorkers,
			MaxAttempts:     DefaultMaxAttempts,
			DownloadTimeout: DefaultDownloadTimeout,
			RetryBackoff:    DefaultRetryBackoff,
		},
		Report: ReportSettings{
			Path: DefaultReportPath,
		},
	}
}

// RunConfig is the single configuration surface of the engine.
type RunConfig struct {
	Mode       Mode
	PlatformID int
	Category   string
	Tag        string

	// OutputDir is the base directory for download mode.
	OutputDir string

	// ReportPath is the destination file for report mode.
	ReportPath string

	// Workers > 1 processes items concurrently.
	Workers int
}

// RunConfigFromSettings builds a RunConfig for mode from settings.
func RunConfigFromSettings(mode Mode, s Settings) RunConfig {
	return RunConfig{
		Mode:       mode,
		PlatformID: s.Sync.PlatformID,
		OutputDir:  s.Sync.OutputDir,
		ReportPath: s.Report.Path,
		Workers:    s.Sync.Workers,
	}
}

// Validate checks the parts of a RunConfig the engine relies on.
func (c RunConfig) Validate() error {
	if !c.Mode.IsValid() {
		return ErrUnsupportedMode
	}
	if c.PlatformID < 1 {
		return ErrInvalidInput
	}
	switch c.Mode {
	case ModeDownload:
		if c.OutputDir == "" {
			return ErrInvalidInput
		}
	case ModeReport:
		if c.ReportPath == "" {
			return ErrInvalidInput
		}
	}
	return nil
}
