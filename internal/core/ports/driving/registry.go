package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// DocumentRegistry is the local copy of the identity's documents.
type DocumentRegistry interface {
	// Refresh replaces the collection with a fresh listing.
	Refresh(ctx context.Context) error

	// Select sets the selection to id if present, otherwise clears it.
	Select(id string) *domain.Document

	// Remove deletes a document, clearing it from the selection first.
	Remove(ctx context.Context, id string) error

	// HandleIdentity reacts to sign in and sign out.
	HandleIdentity(ctx context.Context, identity *domain.Identity)

	// Documents returns a copy of the collection.
	Documents() []domain.Document

	// Selected returns the selected document, or nil.
	Selected() *domain.Document

	// Status returns the collection load status.
	Status() domain.LoadStatus

	// Err returns the last refresh error.
	Err() error

	// OnSelectionChanged registers a selection listener.
	OnSelectionChanged(fn func(doc *domain.Document))
}
