package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage settings",
	Long: `View and change the settings stored in config.toml.

Values from the file override built-in defaults; command-line flags
override both.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting",
	Long: `Stores a value in config.toml. Durations use Go syntax such as 10s or 1m.

Run 'patchsync config keys' for the list of keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", settingsService.Path())
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Base URL: %s\n", settings.API.BaseURL)
	cmd.Printf("  User agent: %s\n", settings.API.UserAgent)
	cmd.Printf("  Per page: %d\n", settings.API.PerPage)
	if settings.API.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s\n", settings.API.RateLimit)
	} else {
		cmd.Printf("  Rate limit: (none)\n")
	}
	if settings.API.RequestTimeout > 0 {
		cmd.Printf("  Request timeout: %s\n", settings.API.RequestTimeout)
	} else {
		cmd.Printf("  Request timeout: (none)\n")
	}
	if settings.API.Token != "" {
		cmd.Printf("  Token: %s\n", maskToken(settings.API.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Sync]")
	cmd.Printf("  Platform: %d\n", settings.Sync.PlatformID)
	cmd.Printf("  Output dir: %s\n", settings.Sync.OutputDir)
	cmd.Printf("  Workers: %d\n", settings.Sync.Workers)
	cmd.Printf("  Max attempts: %d\n", settings.Sync.MaxAttempts)
	cmd.Printf("  Download timeout: %s\n", settings.Sync.DownloadTimeout)
	cmd.Printf("  Retry backoff: %s\n", settings.Sync.RetryBackoff)
	cmd.Println()

	cmd.Println("[Report]")
	cmd.Printf("  Path: %s\n", settings.Report.Path)
	cmd.Println()

	cmd.Println("[Metrics]")
	if settings.Metrics.Textfile != "" {
		cmd.Printf("  Textfile: %s\n", settings.Metrics.Textfile)
	} else {
		cmd.Printf("  Textfile: (disabled)\n")
	}
	cmd.Println()

	if err := settingsService.Validate(settings); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

// maskToken shows only the ends of a secret.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
