// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
)

// DefaultCharLimit bounds a single input.
const DefaultCharLimit = 2000

// Field is a labelled bubbles textinput.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewField creates an unfocused field.
func NewField(s *styles.Styles, label, placeholder string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = DefaultCharLimit
	ti.Width = 50

	return &Field{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// Init starts the cursor blinking.
func (f *Field) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and the framed input.
func (f *Field) View() string {
	frame := f.styles.InputField
	if f.textinput.Focused() {
		frame = f.styles.FocusedInput
	}
	box := frame.Render(f.textinput.View())
	if f.label == "" {
		return box
	}
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, f.styles.Title.Render(f.label), box)
}

// Value returns the current input value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the overall width, label included.
func (f *Field) SetWidth(width int) {
	f.width = width
	inputWidth := width - lipgloss.Width(f.label) - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}

// Reset clears the input.
func (f *Field) Reset() {
	f.textinput.Reset()
}
