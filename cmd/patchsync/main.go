// Command patchsync mirrors a Patchstorage platform catalog to disk.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/patchsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/patchsync/internal/adapters/driven/metrics"
	"github.com/custodia-labs/patchsync/internal/adapters/driven/report/org"
	"github.com/custodia-labs/patchsync/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/patchsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/patchsync/internal/connectors/patchstorage"
	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
	"github.com/custodia-labs/patchsync/internal/core/ports/driving"
	"github.com/custodia-labs/patchsync/internal/core/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = ""

func main() {
	// A missing .env is fine; the token may come from the environment.
	_ = godotenv.Load() //nolint:errcheck // optional file

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetServices(openSettings, newRuntime)

	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openSettings(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store, os.Getenv(domain.TokenEnvVar)), nil
}

func newRuntime(settings domain.Settings) (*cli.Runtime, error) {
	client, err := patchstorage.NewClient(patchstorage.ConfigFromSettings(settings.API))
	if err != nil {
		return nil, err
	}
	downloader := patchstorage.NewDownloader(client, patchstorage.DownloadOptionsFromSettings(settings.Sync))
	recorder := metrics.NewPrometheus(settings.Metrics.Textfile)

	syncOrchestrator := services.NewSyncOrchestrator(
		client,
		client,
		downloader,
		func(baseDir string) driven.Placer { return filesystem.NewPlacer(baseDir) },
		recorder,
	)
	exporter := services.NewExportService(client, org.NewRenderer(), recorder)

	return &cli.Runtime{
		Engine: services.NewEngine(syncOrchestrator, exporter),
		Sync:   syncOrchestrator,
	}, nil
}
