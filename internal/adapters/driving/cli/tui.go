package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for DocChat.

The TUI lists your documents, uploads new ones, and holds a conversation
with the selected document.

Controls:
  ↑/k, ↓/j - Navigate documents
  Enter    - Chat with the document / Send
  u        - Upload a document
  d        - Delete the document
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Workspace: workspace,
		Session:   sessionStore,
		Settings:  settingsService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	restoreSession(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())

	unsubscribe := sessionStore.Subscribe(func(_ context.Context, identity *domain.Identity) {
		p.Send(messages.IdentityChanged{Identity: identity})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
