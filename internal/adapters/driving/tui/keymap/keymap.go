// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Up and Down move through the document list.
	Up   key.Binding
	Down key.Binding

	// Open selects a document and shows its chat.
	Open key.Binding

	// Upload opens the upload form.
	Upload key.Binding

	// Delete asks to delete the highlighted document.
	Delete key.Binding

	// Refresh refetches the document list.
	Refresh key.Binding

	// Send posts the chat input.
	Send key.Binding

	// NextField moves focus in forms.
	NextField key.Binding

	// Confirm and Deny answer yes/no prompts.
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "chat")),
		Upload:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Send:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		NextField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Confirm:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		Deny:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
	}
}

// DocumentsHelp returns keybindings for the documents view.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Upload, k.Delete, k.Refresh, k.Quit}
}

// ChatHelp returns keybindings for the chat view.
func (k *KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Send, k.Back}
}

// UploadHelp returns keybindings for the upload form.
func (k *KeyMap) UploadHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Send, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Upload, k.Delete, k.Refresh},
		{k.Send, k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
