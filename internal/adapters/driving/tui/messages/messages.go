// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments lists the user's documents.
	ViewDocuments ViewType = iota
	// ViewChat is the transcript and input for the selected document.
	ViewChat
	// ViewUpload is the upload form.
	ViewUpload
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewChat:
		return "chat"
	case ViewUpload:
		return "upload"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded signals a registry refresh finished. The documents are
// read from the workspace, not carried here.
type DocumentsLoaded struct {
	Err error
}

// HistoryLoaded signals a transcript reload finished.
type HistoryLoaded struct {
	Err error
}

// MessageSent carries the outcome of a chat send. Entry is nil when the
// send was ignored or superseded by a document switch.
type MessageSent struct {
	Entry *domain.ChatEntry
	Err   error
}

// DocumentDeleted signals a delete finished.
type DocumentDeleted struct {
	ID  string
	Err error
}

// DocumentUploaded signals an upload finished.
type DocumentUploaded struct {
	ID     string
	Opened bool
	Err    error
}

// IdentityChanged is sent when the signed-in identity changes, including
// changes made by another docchat process.
type IdentityChanged struct {
	Identity *domain.Identity
}
