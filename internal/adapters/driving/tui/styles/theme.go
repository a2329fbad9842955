// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
	Bar        lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
		Bar:        lipgloss.Color("#181825"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style

	// InputField frames text inputs.
	InputField lipgloss.Style

	// FocusedInput frames the focused text input.
	FocusedInput lipgloss.Style

	// StatusBar is the bottom bar.
	StatusBar lipgloss.Style

	// UserMessage labels the user's side of a chat exchange.
	UserMessage lipgloss.Style

	// BotMessage labels the bot's side of a chat exchange.
	BotMessage lipgloss.Style

	// Pending renders the placeholder while an answer is awaited.
	Pending lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	input := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		Help:    lipgloss.NewStyle().Foreground(theme.Muted),

		InputField:   input,
		FocusedInput: input.BorderForeground(theme.Primary),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		UserMessage: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		BotMessage:  lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Pending:     lipgloss.NewStyle().Italic(true).Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
