package cli

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.Settings
	validateErr error
	set         map[string]string
}

func newMockSettings() *mockSettingsService {
	s := domain.DefaultSettings()
	s.API.Token = "test-token-123456"
	return &mockSettingsService{settings: s, set: make(map[string]string)}
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, nil
}

func (m *mockSettingsService) Set(key, raw string) error {
	if key == "bad.key" {
		return domain.ErrInvalidInput
	}
	m.set[key] = raw
	return nil
}

func (m *mockSettingsService) Keys() []string {
	keys := []string{"sync.workers", "api.base_url"}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) Validate(s domain.Settings) error {
	if m.validateErr != nil {
		return m.validateErr
	}
	if s.API.Token == "" {
		return domain.ErrAuthRequired
	}
	return nil
}

func (m *mockSettingsService) Path() string {
	return "/tmp/patchsync/config.toml"
}

// mockEngine records the last config it ran.
type mockEngine struct {
	mu     sync.Mutex
	cfg    domain.RunConfig
	report *domain.RunReport
	err    error
}

func (m *mockEngine) Run(_ context.Context, cfg domain.RunConfig) (*domain.RunReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	r := m.report
	if r == nil {
		r = &domain.RunReport{RunID: "run-1", Mode: cfg.Mode, ReportPath: cfg.ReportPath}
	}
	return r, m.err
}

func (m *mockEngine) lastConfig() domain.RunConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct{}

func (m *mockSyncOrchestrator) Sync(_ context.Context, _ domain.RunConfig) (*domain.RunReport, error) {
	return &domain.RunReport{}, nil
}

func (m *mockSyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

type cliFixture struct {
	settings *mockSettingsService
	engine   *mockEngine
	built    []domain.Settings
}

// setupCLI installs mocks and restores globals and flags at cleanup.
func setupCLI(t *testing.T) *cliFixture {
	t.Helper()
	f := &cliFixture{settings: newMockSettings(), engine: &mockEngine{}}

	oldOpen, oldRuntime, oldSettings := openSettings, newRuntime, settingsService
	openSettings = func(string) (driving.SettingsService, error) { return f.settings, nil }
	newRuntime = func(s domain.Settings) (*Runtime, error) {
		f.built = append(f.built, s)
		return &Runtime{Engine: f.engine, Sync: &mockSyncOrchestrator{}}, nil
	}

	t.Cleanup(func() {
		openSettings, newRuntime, settingsService = oldOpen, oldRuntime, oldSettings
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return f
}

// resetFlags returns every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

var errEngine = errors.New("engine exploded")
