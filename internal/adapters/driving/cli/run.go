package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driving"
)

// Flags shared by sync and export.
var (
	flagPlatform int
	flagCategory string
	flagTag      string
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagPlatform, "platform", domain.DefaultPlatformID, "Patchstorage platform id")
	cmd.Flags().StringVar(&flagCategory, "category", "", "Only patches in this category slug")
	cmd.Flags().StringVar(&flagTag, "tag", "", "Only patches with this tag slug")
}

// loadSettings returns validated settings with flag overrides applied.
func loadSettings(cmd *cobra.Command, override func(*domain.Settings)) (domain.Settings, error) {
	if settingsService == nil {
		return domain.Settings{}, errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	if cmd.Flags().Changed("platform") {
		settings.Sync.PlatformID = flagPlatform
	}
	if override != nil {
		override(&settings)
	}

	if err := settingsService.Validate(settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// runMode executes one engine pass and prints its summary.
func runMode(cmd *cobra.Command, mode domain.Mode, settings domain.Settings) error {
	if newRuntime == nil {
		return errors.New("engine not configured")
	}
	rt, err := newRuntime(settings)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	cfg := domain.RunConfigFromSettings(mode, settings)
	cfg.Category = flagCategory
	cfg.Tag = flagTag

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var report *domain.RunReport
	if mode == domain.ModeDownload && rt.Sync != nil && isTerminal(cmd) {
		report, err = runWithProgress(ctx, cmd, rt, cfg)
	} else {
		report, err = rt.Engine.Run(ctx, cfg)
	}

	if report != nil {
		cmd.Print(renderSummary(report))
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", mode, err)
	}
	return nil
}

// runWithProgress runs the engine while redrawing a progress line.
func runWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	rt *Runtime,
	cfg domain.RunConfig,
) (*domain.RunReport, error) {
	type result struct {
		report *domain.RunReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := rt.Engine.Run(ctx, cfg)
		done <- result{report, err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	drawn := false
	for {
		select {
		case r := <-done:
			if drawn {
				cmd.Println()
			}
			return r.report, r.err
		case <-ticker.C:
			// Best effort
			status, statusErr := rt.Sync.Status(ctx)
			if statusErr == nil && status != nil && status.Running && status.ItemsListed > 0 {
				cmd.Print(progressLine(status))
				drawn = true
			}
		}
	}
}

func progressLine(s *driving.SyncStatus) string {
	return fmt.Sprintf("\rProcessing... %d/%d patches, %d files (%d errors)",
		s.ItemsProcessed, s.ItemsListed, s.FilesDownloaded, s.ErrorCount)
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStderr().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
