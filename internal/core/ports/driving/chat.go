package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// ChatSession owns the transcript for the selected document.
type ChatSession interface {
	// Reset binds the session to doc, discarding the transcript.
	Reset(doc *domain.Document)

	// Load fetches history for the bound document.
	Load(ctx context.Context) error

	// Open resets to doc and loads its history.
	Open(ctx context.Context, doc *domain.Document) error

	// Send posts a message with an optimistic pending entry. Blank
	// messages, no bound document, or a send already in flight make it
	// a no-op returning (nil, nil).
	Send(ctx context.Context, message string) (*domain.ChatEntry, error)

	// Snapshot returns a copy of the session.
	Snapshot() domain.ChatSnapshot
}
