package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change docchat settings stored in ~/.docchat/config.toml.

Environment variables such as DOCCHAT_API_BASE_URL override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a setting by key. Run "docchat settings keys" for the list.

Examples:
  docchat settings set api.base_url https://docchat.example.com
  docchat settings set upload.max_size 20MB
  docchat settings set upload.extensions .pdf,.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Base URL:   %s\n", settings.API.BaseURL)
	cmd.Printf("  Timeout:    %s\n", settings.API.Timeout)
	if settings.API.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s (burst %d)\n", settings.API.RateLimit, settings.API.Burst)
	} else {
		cmd.Println("  Rate limit: off")
	}
	cmd.Println()

	cmd.Println("[Upload]")
	cmd.Printf("  Max size:   %s\n", settings.Upload.MaxSize)
	cmd.Printf("  Extensions: %s\n", strings.Join(settings.Upload.Extensions, ", "))
	cmd.Println()

	cmd.Println("[Firebase]")
	if settings.Firebase.APIKey != "" {
		cmd.Printf("  API Key:    %s\n", maskToken(settings.Firebase.APIKey))
	} else {
		cmd.Println("  API Key:    (not set)")
	}
	cmd.Printf("  Endpoint:   %s\n", settings.Firebase.Endpoint)
	cmd.Println()

	cmd.Println("[Google]")
	cmd.Printf("  Client ID:  %s\n", orDash(settings.Google.ClientID))
	cmd.Println()

	cmd.Println("[Display]")
	cmd.Printf("  Markdown:   %t\n", settings.Display.Markdown)
	cmd.Printf("  Word wrap:  %d\n", settings.Display.WordWrap)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}

	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}
