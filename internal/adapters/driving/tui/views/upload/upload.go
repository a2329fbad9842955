// Package upload provides the document upload form for the TUI.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// Form fields in focus order.
const (
	fieldPath = iota
	fieldTitle
	fieldCount
)

// View is the upload form: a file path, a title and whether to open the
// document once it is uploaded.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keys      *keymap.KeyMap
	workspace driving.Workspace
	spinner   spinner.Model

	fields    [fieldCount]*input.Field
	focus     int
	openAfter bool
	uploading bool
	err       error
}

// NewView creates the upload form.
func NewView(s *styles.Styles, workspace driving.Workspace) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{
		ctx:       context.Background(),
		styles:    s,
		keys:      keymap.DefaultKeyMap(),
		workspace: workspace,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		openAfter: true,
	}
	v.fields[fieldPath] = input.NewField(s, "File:  ", "~/Documents/report.pdf")
	v.fields[fieldTitle] = input.NewField(s, "Title: ", "Quarterly report")
	return v
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Reset clears the form and focuses the first field.
func (v *View) Reset() tea.Cmd {
	for _, f := range v.fields {
		f.Reset()
		f.Blur()
	}
	v.focus = fieldPath
	v.uploading = false
	v.err = nil
	return tea.Batch(v.fields[fieldPath].Focus(), v.spinner.Tick)
}

// Update handles messages for the upload form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.uploading {
			return v, nil
		}
		return v.handleKey(msg)

	case messages.DocumentUploaded:
		v.uploading = false
		v.err = msg.Err
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
	case keymap.Matches(key, v.keys.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocuments} }

	case keymap.Matches(key, v.keys.NextField):
		step := 1
		if key == "shift+tab" {
			step = fieldCount - 1
		}
		return v, v.setFocus((v.focus + step) % fieldCount)

	case key == "ctrl+o":
		v.openAfter = !v.openAfter
		return v, nil

	case key == "enter":
		if v.focus < fieldCount-1 {
			return v, v.setFocus(v.focus + 1)
		}
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

func (v *View) setFocus(i int) tea.Cmd {
	v.fields[v.focus].Blur()
	v.focus = i
	return v.fields[i].Focus()
}

// submit uploads the form. An empty path is passed through so the
// coordinator reports the missing field.
func (v *View) submit() tea.Cmd {
	if v.workspace == nil {
		return nil
	}

	path := expandHome(strings.TrimSpace(v.fields[fieldPath].Value()))
	title := v.fields[fieldTitle].Value()
	openAfter := v.openAfter

	v.uploading = true
	v.err = nil
	return func() tea.Msg {
		req := domain.UploadRequest{Title: title}
		if path != "" {
			f, err := os.Open(path)
			if err != nil {
				return messages.DocumentUploaded{Err: fmt.Errorf("failed to open file: %w", err)}
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return messages.DocumentUploaded{Err: fmt.Errorf("failed to read file: %w", err)}
			}
			if info.IsDir() {
				return messages.DocumentUploaded{Err: errors.New("path is a directory")}
			}
			req.File = &domain.File{Name: info.Name(), Size: info.Size(), Content: f}
		}

		id, err := v.workspace.Upload(v.ctx, req, openAfter)
		return messages.DocumentUploaded{ID: id, Opened: openAfter && err == nil, Err: err}
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// View renders the upload form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Upload a document"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("PDF, Word or text files"))
	b.WriteString("\n\n")

	for _, f := range v.fields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}

	check := "[ ]"
	if v.openAfter {
		check = "[x]"
	}
	b.WriteString(v.styles.Normal.Render(check + " open after upload (ctrl+o)"))
	b.WriteString("\n\n")

	switch {
	case v.uploading:
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("Uploading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		var derr *domain.Error
		if errors.As(v.err, &derr) {
			for _, name := range derr.FieldNames() {
				b.WriteString("\n")
				b.WriteString(v.styles.Error.Render(fmt.Sprintf("  %s: %s", name, derr.Fields[name])))
			}
		}
	}

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, _ int) {
	for _, f := range v.fields {
		f.SetWidth(width)
	}
}

// Uploading reports whether an upload is in flight.
func (v *View) Uploading() bool {
	return v.uploading
}

// Err returns the last upload error.
func (v *View) Err() error {
	return v.err
}
