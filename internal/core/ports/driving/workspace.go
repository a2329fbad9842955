package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// Workspace composes the registry, chat session and upload coordinator
// behind the operations a user performs.
type Workspace interface {
	// Refresh refetches the document list.
	Refresh(ctx context.Context) error

	// Documents returns the current collection.
	Documents() []domain.Document

	// Status returns the collection load status and error.
	Status() (domain.LoadStatus, error)

	// Selected returns the selected document, or nil.
	Selected() *domain.Document

	// Select changes the selection and resets the chat session
	// synchronously. Call LoadHistory to fetch the new transcript.
	Select(id string) *domain.Document

	// LoadHistory fetches the transcript for the selected document.
	LoadHistory(ctx context.Context) error

	// Open selects id and loads its history.
	Open(ctx context.Context, id string) (*domain.Document, error)

	// Remove deletes a document.
	Remove(ctx context.Context, id string) error

	// Upload uploads a document, refreshes the registry and, when
	// selectNew is set, opens the new document.
	Upload(ctx context.Context, req domain.UploadRequest, selectNew bool) (string, error)

	// Send posts a chat message for the selected document.
	Send(ctx context.Context, message string) (*domain.ChatEntry, error)

	// Chat returns a snapshot of the chat session.
	Chat() domain.ChatSnapshot
}
