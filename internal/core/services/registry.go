package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure DocumentRegistry implements the interface.
var _ driving.DocumentRegistry = (*DocumentRegistry)(nil)

// Fallback messages when the server sends no detail.
const (
	msgFetchDocuments = "Failed to fetch documents"
	msgDeleteDocument = "Failed to delete document"
)

// DocumentRegistry holds the documents owned by the current identity.
//
// Every refresh takes a sequence number. A successful result is applied
// only if no later-issued refresh has been applied already, and only the
// latest-issued refresh decides the Ready/Error status. Identity changes
// advance the applied mark past every in-flight refresh.
type DocumentRegistry struct {
	api driven.DocumentAPI

	mu         sync.Mutex
	docs       []domain.Document
	selectedID string
	status     domain.LoadStatus
	err        error
	issued     uint64
	applied    uint64
	owner      string
	listeners  []selectionListener
}

// selectionListener is called with the new selection, or nil.
type selectionListener func(doc *domain.Document)

// NewDocumentRegistry creates an empty registry.
func NewDocumentRegistry(api driven.DocumentAPI) *DocumentRegistry {
	return &DocumentRegistry{api: api}
}

// Refresh replaces the whole collection with a fresh listing and clears
// the selection if the selected document disappeared.
func (r *DocumentRegistry) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.status = domain.StatusLoading
	r.mu.Unlock()

	logger.Debug("registry: refresh #%d issued", seq)
	docs, err := r.api.ListDocuments(ctx)

	r.mu.Lock()
	if seq <= r.applied {
		r.mu.Unlock()
		logger.Debug("registry: refresh #%d discarded, #%d already applied", seq, r.applied)
		return domain.ErrStaleResponse
	}

	if err != nil {
		if seq != r.issued {
			r.mu.Unlock()
			logger.Debug("registry: refresh #%d failed after #%d was issued", seq, r.issued)
			return domain.ErrStaleResponse
		}
		fetchErr := fetchError(err)
		r.status = domain.StatusError
		r.err = fetchErr
		r.mu.Unlock()
		return fetchErr
	}

	r.applied = seq
	r.docs = append([]domain.Document(nil), docs...)
	if seq == r.issued {
		r.status = domain.StatusReady
		r.err = nil
	}
	cleared := r.selectedID != "" && domain.FindDocument(r.docs, r.selectedID) == nil
	if cleared {
		logger.Debug("registry: selected document %s no longer listed", r.selectedID)
		r.selectedID = ""
	}
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	logger.Debug("registry: refresh #%d applied (%d documents)", seq, len(docs))
	if cleared {
		notifySelection(listeners, nil)
	}
	return nil
}

// Select sets the selection to id when it is in the collection and clears
// it otherwise. Listeners are notified even when the selection is unchanged
// so that reselecting a document reloads its transcript.
func (r *DocumentRegistry) Select(id string) *domain.Document {
	r.mu.Lock()
	doc := domain.FindDocument(r.docs, id)
	if doc == nil {
		if id != "" {
			logger.Debug("registry: unknown document %s, clearing selection", id)
		}
		r.selectedID = ""
	} else {
		r.selectedID = doc.ID
	}
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	notifySelection(listeners, doc)
	return copyDocument(doc)
}

// Remove deletes a document. The selection is cleared before the delete
// is attempted and stays cleared if it fails. On success the registry is
// refreshed; on failure the collection is untouched.
func (r *DocumentRegistry) Remove(ctx context.Context, id string) error {
	if id == "" {
		return domain.NewValidationError("document id is required", map[string]string{"id": "required"})
	}

	r.mu.Lock()
	wasSelected := r.selectedID == id
	if wasSelected {
		r.selectedID = ""
	}
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	if wasSelected {
		notifySelection(listeners, nil)
	}

	if err := r.api.DeleteDocument(ctx, id); err != nil {
		return domain.NewMutationError(msgDeleteDocument, err)
	}

	logger.Debug("registry: deleted document %s", id)
	if err := r.Refresh(ctx); err != nil && !domain.IsStale(err) {
		return err
	}
	return nil
}

// HandleIdentity reacts to identity changes. Signing out or switching user
// clears the registry, invalidates in-flight refreshes and, for a new user,
// refetches. A new token for the same user keeps the collection and the
// selection; it only refetches when the last refresh failed.
func (r *DocumentRegistry) HandleIdentity(ctx context.Context, identity *domain.Identity) {
	r.mu.Lock()
	if identity != nil && r.owner != "" && identity.ID == r.owner {
		retry := r.status == domain.StatusError
		r.mu.Unlock()

		if !retry {
			logger.Debug("registry: token rotated for %s, keeping documents", identity.ID)
			return
		}
		if err := r.Refresh(ctx); err != nil && !domain.IsStale(err) {
			logger.Warn("registry: refresh after token rotation failed: %v", err)
		}
		return
	}

	r.owner = ""
	if identity != nil {
		r.owner = identity.ID
	}
	r.issued++
	r.applied = r.issued
	r.docs = nil
	r.err = nil
	r.status = domain.StatusIdle
	hadSelection := r.selectedID != ""
	r.selectedID = ""
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	if hadSelection {
		notifySelection(listeners, nil)
	}

	if identity == nil {
		logger.Debug("registry: cleared on sign out")
		return
	}

	if err := r.Refresh(ctx); err != nil && !domain.IsStale(err) {
		logger.Warn("registry: refresh after sign in failed: %v", err)
	}
}

// adopt records the identity the registry already belongs to, so that a
// later notification for the same user is treated as a token rotation.
func (r *DocumentRegistry) adopt(identity *domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owner = ""
	if identity != nil {
		r.owner = identity.ID
	}
}

// Documents returns a copy of the collection.
func (r *DocumentRegistry) Documents() []domain.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Document(nil), r.docs...)
}

// Selected returns the selected document, or nil.
func (r *DocumentRegistry) Selected() *domain.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.FindDocument(r.docs, r.selectedID)
}

// Status returns the collection load status.
func (r *DocumentRegistry) Status() domain.LoadStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Err returns the last refresh error.
func (r *DocumentRegistry) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// OnSelectionChanged registers fn for selection changes.
func (r *DocumentRegistry) OnSelectionChanged(fn func(doc *domain.Document)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// snapshotListeners copies the listener list (caller must hold lock).
func (r *DocumentRegistry) snapshotListeners() []selectionListener {
	return append([]selectionListener(nil), r.listeners...)
}

// fetchError wraps a listing failure. A missing or expired token keeps its
// authentication message so users know to sign in.
func fetchError(err error) *domain.Error {
	if domain.IsKind(err, domain.KindAuthentication) {
		return domain.NewFetchError(err.Error(), err)
	}
	return domain.NewFetchError(msgFetchDocuments, err)
}

func notifySelection(listeners []selectionListener, doc *domain.Document) {
	for _, fn := range listeners {
		fn(copyDocument(doc))
	}
}

func copyDocument(doc *domain.Document) *domain.Document {
	if doc == nil {
		return nil
	}
	c := *doc
	return &c
}
