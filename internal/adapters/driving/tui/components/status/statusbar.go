// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
)

// State is what the bar's left side reports.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
)

// Bar displays the signed-in account, activity and key hints.
type Bar struct {
	styles  *styles.Styles
	state   State
	message string
	account string
	hints   []key.Binding
	width   int
}

// NewBar creates a status bar.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Bar{styles: s, state: StateReady, width: 80}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderLeft() string {
	account := b.styles.Muted.Render("not signed in")
	if b.account != "" {
		account = b.styles.Normal.Render(b.account)
	}

	switch b.state {
	case StateLoading:
		msg := b.message
		if msg == "" {
			msg = "Loading..."
		}
		return account + "  " + b.styles.Muted.Render(msg)
	case StateError:
		if b.message != "" {
			return account + "  " + b.styles.Error.Render(fmt.Sprintf("Error: %s", b.message))
		}
		return account + "  " + b.styles.Error.Render("Error")
	case StateReady:
		if b.message != "" {
			return account + "  " + b.styles.Success.Render(b.message)
		}
	}
	return account
}

func (b *Bar) renderRight() string {
	hints := make([]string, 0, len(b.hints))
	for _, binding := range b.hints {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the state and its message.
func (b *Bar) SetState(state State, message string) {
	b.state = state
	b.message = message
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetAccount sets the signed-in account label. Empty means signed out.
func (b *Bar) SetAccount(account string) {
	b.account = account
}

// Account returns the account label.
func (b *Bar) Account() string {
	return b.account
}

// SetHints sets the key hints shown on the right.
func (b *Bar) SetHints(hints []key.Binding) {
	b.hints = hints
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}

// Clear resets the state and message.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
}
