package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

var (
	syncOutputDir   string
	syncWorkers     int
	syncMetricsFile string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download a platform's patches",
	Long: `Lists every patch of the platform, fetches each patch's file list and
downloads the files into <output-dir>/<category>/<tag>/.

Patches whose details cannot be fetched, and files that fail to download,
are skipped and reported. The command only fails when no catalog data
could be obtained at all.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	addFilterFlags(syncCmd)
	syncCmd.Flags().StringVarP(&syncOutputDir, "output-dir", "o", domain.DefaultOutputDir, "Base directory for downloads")
	syncCmd.Flags().IntVarP(&syncWorkers, "workers", "w", domain.DefaultWorkers, "Patches processed concurrently")
	syncCmd.Flags().StringVar(&syncMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd, func(s *domain.Settings) {
		if cmd.Flags().Changed("output-dir") {
			s.Sync.OutputDir = syncOutputDir
		}
		if cmd.Flags().Changed("workers") {
			s.Sync.Workers = syncWorkers
		}
		if cmd.Flags().Changed("metrics-file") {
			s.Metrics.Textfile = syncMetricsFile
		}
	})
	if err != nil {
		return err
	}

	cmd.Printf("Synchronising platform %d into %s...\n", settings.Sync.PlatformID, settings.Sync.OutputDir)
	return runMode(cmd, domain.ModeDownload, settings)
}
