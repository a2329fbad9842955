// Package documents provides the documents list view component for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

const dateLayout = "2006-01-02"

// View is the documents list view. The collection and its load status are
// read from the workspace on every render.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keys      *keymap.KeyMap
	workspace driving.Workspace
	spinner   spinner.Model

	cursor       int
	scrollOffset int
	width        int
	height       int
	confirming   bool
	actionErr    error
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, workspace driving.Workspace) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		ctx:       context.Background(),
		styles:    s,
		keys:      keymap.DefaultKeyMap(),
		workspace: workspace,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the documents and starts the spinner.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.Reload())
}

// Reload returns a command that refetches the collection.
func (v *View) Reload() tea.Cmd {
	return func() tea.Msg {
		if v.workspace == nil {
			return messages.DocumentsLoaded{Err: errors.New("workspace not available")}
		}
		return messages.DocumentsLoaded{Err: v.workspace.Refresh(v.ctx)}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.confirming {
			return v.handleConfirmKey(msg)
		}
		return v.handleKey(msg)

	case messages.DocumentsLoaded:
		v.clampCursor()
		return v, nil

	case messages.DocumentDeleted:
		v.actionErr = msg.Err
		v.clampCursor()
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.adjustScroll()
		}
	case keymap.Matches(key, v.keys.Down):
		if v.cursor < len(v.documents())-1 {
			v.cursor++
			v.adjustScroll()
		}
	case keymap.Matches(key, v.keys.Open):
		return v, v.open()
	case keymap.Matches(key, v.keys.Upload):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewUpload} }
	case keymap.Matches(key, v.keys.Delete):
		if v.Highlighted() != nil {
			v.confirming = true
		}
	case keymap.Matches(key, v.keys.Refresh):
		v.actionErr = nil
		return v, v.Reload()
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keys.Confirm):
		v.confirming = false
		doc := v.Highlighted()
		if doc == nil {
			return v, nil
		}
		return v, v.remove(doc.ID)
	case keymap.Matches(key, v.keys.Deny):
		v.confirming = false
	}
	return v, nil
}

// open selects the highlighted document, which resets the chat before
// its history is fetched, and switches to the chat view.
func (v *View) open() tea.Cmd {
	doc := v.Highlighted()
	if doc == nil || v.workspace == nil {
		return nil
	}
	if v.workspace.Select(doc.ID) == nil {
		return nil
	}

	load := func() tea.Msg {
		return messages.HistoryLoaded{Err: v.workspace.LoadHistory(v.ctx)}
	}
	show := func() tea.Msg {
		return messages.ViewChanged{View: messages.ViewChat}
	}
	return tea.Batch(show, load)
}

func (v *View) remove(id string) tea.Cmd {
	return func() tea.Msg {
		if v.workspace == nil {
			return messages.DocumentDeleted{ID: id, Err: errors.New("workspace not available")}
		}
		return messages.DocumentDeleted{ID: id, Err: v.workspace.Remove(v.ctx, id)}
	}
}

func (v *View) documents() []domain.Document {
	if v.workspace == nil {
		return nil
	}
	return v.workspace.Documents()
}

func (v *View) clampCursor() {
	n := len(v.documents())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.adjustScroll()
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	} else if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	available := (v.height - 6) / 2
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	docs := v.documents()
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(docs))))
	b.WriteString("\n\n")

	status, err := domain.StatusIdle, error(nil)
	if v.workspace != nil {
		status, err = v.workspace.Status()
	}

	switch {
	case status == domain.StatusLoading:
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("Loading documents..."))
	case status == domain.StatusError:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Could not load documents: %v", err)))
		if domain.IsKind(err, domain.KindAuthentication) {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render("Sign in with: docchat auth login"))
		}
	case len(docs) == 0:
		b.WriteString(v.styles.Muted.Render("No documents yet. Press u to upload one."))
	default:
		v.renderList(&b, docs)
	}

	if v.confirming {
		if doc := v.Highlighted(); doc != nil {
			b.WriteString("\n\n")
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %q? [y/n]", doc.Title)))
		}
	}
	if v.actionErr != nil {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Error.Render(v.actionErr.Error()))
	}

	return b.String()
}

func (v *View) renderList(b *strings.Builder, docs []domain.Document) {
	selectedID := ""
	if v.workspace != nil {
		if sel := v.workspace.Selected(); sel != nil {
			selectedID = sel.ID
		}
	}

	visible := v.visibleItemCount()
	for i := v.scrollOffset; i < len(docs) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderDocument(i, &docs[i], docs[i].ID == selectedID))
		b.WriteString("\n")
	}

	if len(docs) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(docs)),
			len(docs))))
	}
}

func (v *View) renderDocument(index int, doc *domain.Document, selected bool) string {
	marker := "  "
	if selected {
		marker = "● "
	}

	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	maxTitleLen := v.width - 8
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	uploaded := "unknown date"
	if !doc.UploadedAt.IsZero() {
		uploaded = doc.UploadedAt.Local().Format(dateLayout)
	}

	line := marker + title
	if index == v.cursor {
		line = v.styles.Selected.Render(line)
	} else {
		line = v.styles.Normal.Render(line)
	}
	return line + "\n" + v.styles.Muted.Render("    uploaded "+uploaded)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.adjustScroll()
}

// Cursor returns the highlighted index.
func (v *View) Cursor() int {
	return v.cursor
}

// Highlighted returns the document under the cursor, or nil.
func (v *View) Highlighted() *domain.Document {
	docs := v.documents()
	if v.cursor < len(docs) {
		return &docs[v.cursor]
	}
	return nil
}

// IsConfirming reports whether a delete is awaiting confirmation.
func (v *View) IsConfirming() bool {
	return v.confirming
}

// Err returns the last action error.
func (v *View) Err() error {
	return v.actionErr
}
