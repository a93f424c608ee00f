package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
	"github.com/custodia-labs/patchsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyBaseURL         = "api.base_url"
	KeyUserAgent       = "api.user_agent"
	KeyPerPage         = "api.per_page"
	KeyRateLimit       = "api.rate_limit"
	KeyRequestTimeout  = "api.request_timeout"
	KeyPlatform        = "sync.platform"
	KeyOutputDir       = "sync.output_dir"
	KeyWorkers         = "sync.workers"
	KeyMaxAttempts     = "sync.max_attempts"
	KeyDownloadTimeout = "sync.download_timeout"
	KeyRetryBackoff    = "sync.retry_backoff"
	KeyReportPath      = "report.path"
	KeyMetricsTextfile = "metrics.textfile"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindDuration
)

var knownKeys = map[string]valueKind{
	KeyBaseURL:         kindString,
	KeyUserAgent:       kindString,
	KeyPerPage:         kindInt,
	KeyRateLimit:       kindFloat,
	KeyRequestTimeout:  kindDuration,
	KeyPlatform:        kindInt,
	KeyOutputDir:       kindString,
	KeyWorkers:         kindInt,
	KeyMaxAttempts:     kindInt,
	KeyDownloadTimeout: kindDuration,
	KeyRetryBackoff:    kindDuration,
	KeyReportPath:      kindString,
	KeyMetricsTextfile: kindString,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	token       string
}

// NewSettingsService creates a new settings service. The token is never
// written to the config store.
func NewSettingsService(configStore driven.ConfigStore, token string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		token:       token,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := domain.DefaultSettings()
	settings.API.Token = s.token

	s.overlayString(KeyBaseURL, &settings.API.BaseURL)
	s.overlayString(KeyUserAgent, &settings.API.UserAgent)
	s.overlayInt(KeyPerPage, &settings.API.PerPage)
	if _, ok := s.configStore.Get(KeyRateLimit); ok {
		settings.API.RateLimit = s.configStore.GetFloat(KeyRateLimit)
	}
	s.overlayDuration(KeyRequestTimeout, &settings.API.RequestTimeout)

	s.overlayInt(KeyPlatform, &settings.Sync.PlatformID)
	s.overlayString(KeyOutputDir, &settings.Sync.OutputDir)
	s.overlayInt(KeyWorkers, &settings.Sync.Workers)
	s.overlayInt(KeyMaxAttempts, &settings.Sync.MaxAttempts)
	s.overlayDuration(KeyDownloadTimeout, &settings.Sync.DownloadTimeout)
	s.overlayDuration(KeyRetryBackoff, &settings.Sync.RetryBackoff)

	s.overlayString(KeyReportPath, &settings.Report.Path)
	s.overlayString(KeyMetricsTextfile, &settings.Metrics.Textfile)

	return settings, nil
}

// Set parses raw according to key and persists it. Durations are stored
// as strings such as "10s".
func (s *SettingsService) Set(key, raw string) error {
	value, err := parseValue(key, raw)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the known configuration keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks settings against their struct tags. A missing token is
// reported as domain.ErrAuthRequired, anything else as domain.ErrInvalidInput.
func (s *SettingsService) Validate(settings domain.Settings) error {
	err := validate.Struct(settings)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate settings: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.StructNamespace() == "Settings.API.Token" {
			return fmt.Errorf("%w: set %s", domain.ErrAuthRequired, domain.TokenEnvVar)
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.StructNamespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, ", "))
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func parseValue(key, raw string) (any, error) {
	kind, ok := knownKeys[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	raw = strings.TrimSpace(raw)
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects an integer", domain.ErrInvalidInput, key)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a number", domain.ErrInvalidInput, key)
		}
		return f, nil
	case kindDuration:
		if _, err := time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("%w: %s expects a duration like 10s", domain.ErrInvalidInput, key)
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func (s *SettingsService) overlayString(key string, dst *string) {
	if _, ok := s.configStore.Get(key); ok {
		*dst = s.configStore.GetString(key)
	}
}

func (s *SettingsService) overlayInt(key string, dst *int) {
	if _, ok := s.configStore.Get(key); ok {
		*dst = s.configStore.GetInt(key)
	}
}

func (s *SettingsService) overlayDuration(key string, dst *time.Duration) {
	if _, ok := s.configStore.Get(key); ok {
		*dst = s.configStore.GetDuration(key)
	}
}
