package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change docbase settings.

Settings are stored in ~/.docbase/config.toml (or the file given with
--config). DOCBASE_* environment variables override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a setting and save it to the config file.

Run "docbase settings keys" to list the keys that can be set.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runSettingsPath,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	dataDir := settings.DataDir
	if dataDir == "" {
		dataDir = "~/.docbase"
	}
	cmd.Printf("  Data dir: %s\n", dataDir)
	cmd.Printf("  Verbose:  %t\n", settings.Verbose)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Max size: %d\n", settings.Chunking.MaxSize)
	cmd.Printf("  Overlap:  %d\n", settings.Chunking.Overlap)
	cmd.Printf("  Min fill: %.2f\n", settings.Chunking.MinFill)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Budget chars:     %d\n", settings.Retrieval.BudgetChars)
	cmd.Printf("  Max documents:    %d\n", settings.Retrieval.MaxDocuments)
	cmd.Printf("  Candidate factor: %d\n", settings.Retrieval.CandidateFactor)
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Workers:        %d\n", settings.Ingest.Workers)
	cmd.Printf("  Max file bytes: %d\n", settings.Ingest.MaxFileBytes)
	cmd.Printf("  Skip hidden:    %t\n", settings.Ingest.SkipHidden)
	cmd.Println()

	cmd.Println("[Answer]")
	cmd.Printf("  Base URL: %s\n", settings.Answer.BaseURL)
	cmd.Printf("  Model:    %s\n", settings.Answer.Model)
	if settings.Answer.APIKey != "" {
		cmd.Printf("  API Key:  %s\n", maskAPIKey(settings.Answer.APIKey))
	} else {
		cmd.Printf("  API Key:  (not set)\n")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}
	cmd.Println(settingsService.Path())
	return nil
}

// maskAPIKey masks an API key for display, keeping the first and last 4 characters.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
