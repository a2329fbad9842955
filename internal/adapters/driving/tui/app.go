package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/views/upload"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	documentsView *documents.View
	chatView      *chat.View
	uploadView    *upload.View
	statusBar     *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error reported by a view.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	a := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keys:          keymap.DefaultKeyMap(),
		documentsView: documents.NewView(s, ports.Workspace),
		chatView:      chat.NewView(s, ports.Workspace, newRenderer(ports)),
		uploadView:    upload.NewView(s, ports.Workspace),
		statusBar:     status.NewBar(s),
		currentView:   messages.ViewDocuments,
	}
	a.setAccount(ports.Session.Current())
	a.statusBar.SetHints(a.keys.DocumentsHelp())
	return a, nil
}

func newRenderer(ports *Ports) *glamour.TermRenderer {
	settings := domain.DefaultSettings()
	if ports.Settings != nil {
		settings = ports.Settings.Get()
	}
	if !settings.Display.Markdown {
		return nil
	}
	r, err := chat.NewRenderer(settings.Display.WordWrap)
	if err != nil {
		logger.Warn("tui: markdown rendering disabled: %v", err)
		return nil
	}
	return r
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.documentsView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	a.uploadView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docchat"),
		a.documentsView.Init(),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		if msg.Err != nil {
			a.report(msg.Err)
		} else {
			a.statusBar.SetState(status.StateReady, "Document deleted")
		}
		return a, cmd

	case messages.HistoryLoaded:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.MessageSent:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.DocumentUploaded:
		a.uploadView, cmd = a.uploadView.Update(msg)
		if msg.Err != nil {
			return a, cmd
		}
		a.statusBar.SetState(status.StateReady, "Document uploaded")
		if msg.Opened {
			return a, tea.Batch(cmd, a.switchView(messages.ViewChat))
		}
		return a, tea.Batch(cmd, a.switchView(messages.ViewDocuments))

	case messages.IdentityChanged:
		a.setAccount(msg.Identity)
		a.statusBar.Clear()
		a.chatView.Refresh()
		if msg.Identity == nil && a.currentView != messages.ViewDocuments {
			return a, a.switchView(messages.ViewDocuments)
		}
		return a, nil

	case messages.ErrorOccurred:
		a.report(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	case spinner.TickMsg:
		var docCmd, chatCmd, uploadCmd tea.Cmd
		a.documentsView, docCmd = a.documentsView.Update(msg)
		a.chatView, chatCmd = a.chatView.Update(msg)
		a.uploadView, uploadCmd = a.uploadView.Update(msg)
		return a, tea.Batch(docCmd, chatCmd, uploadCmd)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewDocuments:
		if !a.documentsView.IsConfirming() {
			switch {
			case keymap.Matches(msg.String(), a.keys.Quit):
				return a, tea.Quit
			case keymap.Matches(msg.String(), a.keys.Help):
				return a, a.switchView(messages.ViewHelp)
			}
		}
		a.documentsView, cmd = a.documentsView.Update(msg)

	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)

	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)

	case messages.ViewHelp:
		if keymap.Matches(msg.String(), a.keys.Back) || keymap.Matches(msg.String(), a.keys.Help) {
			return a, a.switchView(messages.ViewDocuments)
		}
		if keymap.Matches(msg.String(), a.keys.Quit) {
			return a, tea.Quit
		}
	}
	return a, cmd
}

func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewChat:
		a.statusBar.SetHints(a.keys.ChatHelp())
		return a.chatView.Focus()
	case messages.ViewUpload:
		a.statusBar.SetHints(a.keys.UploadHelp())
		return a.uploadView.Reset()
	case messages.ViewDocuments, messages.ViewHelp:
		a.statusBar.SetHints(a.keys.DocumentsHelp())
	}
	return nil
}

func (a *App) report(err error) {
	if err == nil {
		return
	}
	a.err = err
	a.statusBar.SetState(status.StateError, err.Error())
}

func (a *App) setAccount(identity *domain.Identity) {
	switch {
	case identity == nil:
		a.statusBar.SetAccount("")
	case identity.Email != "":
		a.statusBar.SetAccount(identity.Email)
	default:
		a.statusBar.SetAccount(identity.ID)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewUpload:
		body = a.uploadView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.documentsView.View()
	}
	return body + "\n\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Documents:
  j/k, ↑/↓    Move
  enter       Chat with the document
  u           Upload a document
  d           Delete the document
  r           Refresh the list
  q           Quit

Chat:
  enter       Send the message
  pgup/pgdn   Scroll the conversation
  esc         Back to documents

Upload:
  tab         Next field
  ctrl+o      Toggle opening the document after upload
  enter       Upload
  esc         Back to documents

[esc] back`
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and its views.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	// The status bar and its spacing take two lines.
	viewHeight := height - 2
	a.documentsView.SetDimensions(width, viewHeight)
	a.chatView.SetDimensions(width, viewHeight)
	a.uploadView.SetDimensions(width, viewHeight)
	a.statusBar.SetWidth(width)
}
