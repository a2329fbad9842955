// Package chat provides the chat view for the selected document.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

const (
	timeLayout     = "15:04"
	pendingMessage = "Thinking..."
)

// View shows the transcript of the selected document and the message input.
// The transcript is read from the workspace snapshot on every refresh.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keys      *keymap.KeyMap
	workspace driving.Workspace
	renderer  *glamour.TermRenderer

	input    *input.Field
	viewport viewport.Model
	spinner  spinner.Model

	// rendered caches markdown renders by entry id.
	rendered map[string]string

	width  int
	height int
}

// NewView creates the chat view. renderer may be nil to show answers as
// plain text.
func NewView(s *styles.Styles, workspace driving.Workspace, renderer *glamour.TermRenderer) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{
		ctx:       context.Background(),
		styles:    s,
		keys:      keymap.DefaultKeyMap(),
		workspace: workspace,
		renderer:  renderer,
		input:     input.NewField(s, "", "Ask a question about this document..."),
		viewport:  viewport.New(80, 20),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		rendered:  make(map[string]string),
	}
	return v
}

// NewRenderer builds a glamour renderer wrapping at wordWrap columns.
func NewRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the spinner.
func (v *View) Init() tea.Cmd {
	return v.spinner.Tick
}

// Focus focuses the input and refreshes the transcript.
func (v *View) Focus() tea.Cmd {
	v.Refresh()
	return v.input.Focus()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.HistoryLoaded, messages.MessageSent:
		v.Refresh()
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		if v.snapshot().Pending() != nil {
			v.Refresh()
		}
		return v, cmd
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keys.Back):
		v.input.Blur()
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocuments} }

	case keymap.Matches(key, v.keys.Send):
		return v, v.send()

	case key == "pgup", key == "pgdown", key == "ctrl+u", key == "ctrl+d":
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// send posts the input. Blank input and sends while one is in flight are
// ignored; the input is kept so the user can retry.
func (v *View) send() tea.Cmd {
	message := v.input.Value()
	if strings.TrimSpace(message) == "" || v.workspace == nil {
		return nil
	}
	if snap := v.snapshot(); snap.State != domain.ChatReady {
		return nil
	}

	v.input.Reset()
	return func() tea.Msg {
		entry, err := v.workspace.Send(v.ctx, message)
		return messages.MessageSent{Entry: entry, Err: err}
	}
}

func (v *View) snapshot() domain.ChatSnapshot {
	if v.workspace == nil {
		return domain.ChatSnapshot{}
	}
	return v.workspace.Chat()
}

// Refresh re-renders the transcript from the workspace.
func (v *View) Refresh() {
	v.viewport.SetContent(v.renderTranscript(v.snapshot()))
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript(snap domain.ChatSnapshot) string {
	switch snap.State {
	case domain.ChatIdle:
		return v.styles.Muted.Render("Select a document to start chatting.")
	case domain.ChatLoading:
		return v.spinner.View() + " " + v.styles.Muted.Render("Loading conversation...")
	case domain.ChatError:
		return v.styles.Error.Render(fmt.Sprintf("Could not load history: %v", snap.Err))
	case domain.ChatReady, domain.ChatSending:
	}

	if len(snap.Entries) == 0 {
		return v.styles.Muted.Render("No messages yet. Ask a question below.")
	}

	var b strings.Builder
	for i := range snap.Entries {
		entry := &snap.Entries[i]
		b.WriteString(v.styles.UserMessage.Render("You"))
		if !entry.Timestamp.IsZero() {
			b.WriteString(v.styles.Muted.Render("  " + entry.Timestamp.Local().Format(timeLayout)))
		}
		b.WriteString("\n")
		b.WriteString(entry.UserMessage)
		b.WriteString("\n\n")
		b.WriteString(v.styles.BotMessage.Render("DocChat"))
		b.WriteString("\n")
		if entry.Pending {
			b.WriteString(v.spinner.View() + " " + v.styles.Pending.Render(pendingMessage))
		} else {
			b.WriteString(v.renderAnswer(entry))
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *View) renderAnswer(entry *domain.ChatEntry) string {
	if v.renderer == nil {
		return entry.BotResponse
	}
	if out, ok := v.rendered[entry.ID]; ok && entry.ID != "" {
		return out
	}
	out, err := v.renderer.Render(entry.BotResponse)
	if err != nil {
		return entry.BotResponse
	}
	out = strings.Trim(out, "\n")
	if entry.ID != "" {
		v.rendered[entry.ID] = out
	}
	return out
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder

	snap := v.snapshot()
	title := "Chat"
	if snap.Document != nil {
		title = "Chat - " + snap.Document.Title
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n\n")

	if snap.SendErr != nil {
		b.WriteString(v.styles.Error.Render(snap.SendErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(v.input.View())

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	// Title, spacing, input box and an error line.
	vpHeight := height - 9
	if vpHeight < 3 {
		vpHeight = 3
	}
	v.viewport.Width = width
	v.viewport.Height = vpHeight
	v.input.SetWidth(width)
	v.Refresh()
}

// Input returns the current input text.
func (v *View) Input() string {
	return v.input.Value()
}

// Transcript returns the rendered transcript, without the viewport clipping.
func (v *View) Transcript() string {
	return v.renderTranscript(v.snapshot())
}
