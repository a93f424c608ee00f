package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/patchsync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "patchsync",
	Short: "Mirror a Patchstorage platform catalog to disk",
	Long: `patchsync lists every patch published for a Patchstorage platform,
downloads each patch's files into a category/tag directory tree, or
exports the catalog as an org-mode document.

The API token is read from PATCHSTORAGE_API_TOKEN (a .env file in the
working directory is honoured). Settings are read from
~/.patchsync/config.toml unless --config-dir is given.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding config.toml (default ~/.patchsync)")
}

// setup applies global flags and opens settings before any subcommand.
func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if openSettings == nil {
		return nil
	}
	svc, err := openSettings(configDir)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	settingsService = svc
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands use to
// stop a run early.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
