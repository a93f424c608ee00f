package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a platform's catalog as an org document",
	Long: `Lists every patch of the platform and writes an org-mode document
grouped by category, with tags, author, URL and description per patch.
No files are downloaded.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", domain.DefaultReportPath, "Report file path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd, func(s *domain.Settings) {
		if cmd.Flags().Changed("output") {
			s.Report.Path = exportOutput
		}
	})
	if err != nil {
		return err
	}

	cmd.Printf("Exporting platform %d to %s...\n", settings.Sync.PlatformID, settings.Report.Path)
	return runMode(cmd, domain.ModeReport, settings)
}
