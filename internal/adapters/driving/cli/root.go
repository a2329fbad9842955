// Package cli implements the docchat command line with cobra.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose enables debug logging.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents from the terminal",
	Long: `docchat uploads documents to the DocChat backend and lets you ask
questions about them from the command line, an interactive terminal UI, or an
MCP-compatible AI assistant.

Sign in first with "docchat auth login", then upload a document with
"docchat document upload" and start asking questions with "docchat chat".`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// GoogleSignIn obtains a Google ID token, typically through the browser.
type GoogleSignIn interface {
	IDToken(ctx context.Context) (string, error)
}

// SelectionStore remembers the selected document between invocations.
type SelectionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Services holds the core services the commands drive.
type Services struct {
	Auth      driving.AuthService
	Session   driving.SessionStore
	Workspace driving.Workspace
	Profile   driving.ProfileService
	Settings  driving.SettingsService
	Selection SelectionStore
	Google    GoogleSignIn
}

// Service instances set by main.
var (
	authService     driving.AuthService
	sessionStore    driving.SessionStore
	workspace       driving.Workspace
	profileService  driving.ProfileService
	settingsService driving.SettingsService
	selectionStore  SelectionStore
	googleSignIn    GoogleSignIn
)

// SetServices injects the services used by commands.
func SetServices(s Services) {
	authService = s.Auth
	sessionStore = s.Session
	workspace = s.Workspace
	profileService = s.Profile
	settingsService = s.Settings
	selectionStore = s.Selection
	googleSignIn = s.Google
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// restoreSession resumes the saved provider session. Only long-running
// commands call it; one-shot commands read the persisted identity and
// refresh an expired token on demand. A failure is logged and leaves the
// persisted identity in place.
func restoreSession(ctx context.Context) {
	if authService == nil {
		return
	}
	if err := authService.Restore(ctx); err != nil {
		logger.Warn("auth: could not restore session: %v", err)
	}
}

func requireWorkspace() error {
	if workspace == nil {
		return errors.New("workspace not configured")
	}
	return nil
}
