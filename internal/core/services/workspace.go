package services

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure Workspace implements the interface.
var _ driving.Workspace = (*Workspace)(nil)

// Workspace wires the session store, registry, chat session and upload
// coordinator together:
//
//   - sign in, sign out and user switches reset the registry and refetch documents
//   - selection changes hard-reset the chat session
//   - uploads refresh the registry and optionally open the new document
type Workspace struct {
	session  *SessionStore
	registry *DocumentRegistry
	chat     *ChatSession
	upload   *UploadCoordinator
	profile  *ProfileService

	unsubscribe func()
}

// NewWorkspace composes the services. profile may be nil.
func NewWorkspace(
	session *SessionStore,
	registry *DocumentRegistry,
	chat *ChatSession,
	upload *UploadCoordinator,
	profile *ProfileService,
) *Workspace {
	w := &Workspace{
		session:  session,
		registry: registry,
		chat:     chat,
		upload:   upload,
		profile:  profile,
	}

	registry.adopt(session.Current())
	registry.OnSelectionChanged(chat.Reset)
	w.unsubscribe = session.Subscribe(w.handleIdentity)
	return w
}

// Close detaches the workspace from the session store.
func (w *Workspace) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
}

func (w *Workspace) handleIdentity(ctx context.Context, identity *domain.Identity) {
	if w.profile != nil {
		w.profile.HandleIdentity(identity)
	}
	w.registry.HandleIdentity(ctx, identity)
}

// Refresh refetches the document list. A refresh superseded by a newer
// one is not an error.
func (w *Workspace) Refresh(ctx context.Context) error {
	if err := w.registry.Refresh(ctx); err != nil && !domain.IsStale(err) {
		return err
	}
	return nil
}

// Documents returns the current collection.
func (w *Workspace) Documents() []domain.Document {
	return w.registry.Documents()
}

// Status returns the registry status and its last error.
func (w *Workspace) Status() (domain.LoadStatus, error) {
	return w.registry.Status(), w.registry.Err()
}

// Selected returns the selected document, or nil.
func (w *Workspace) Selected() *domain.Document {
	return w.registry.Selected()
}

// Select changes the selection. The chat session is reset before Select
// returns.
func (w *Workspace) Select(id string) *domain.Document {
	return w.registry.Select(id)
}

// LoadHistory fetches the transcript for the bound document.
func (w *Workspace) LoadHistory(ctx context.Context) error {
	if err := w.chat.Load(ctx); err != nil && !domain.IsStale(err) {
		return err
	}
	return nil
}

// Open selects id and loads its history. It returns nil and no error when
// id is not in the collection.
func (w *Workspace) Open(ctx context.Context, id string) (*domain.Document, error) {
	doc := w.Select(id)
	if doc == nil {
		return nil, nil
	}
	return doc, w.LoadHistory(ctx)
}

// Remove deletes a document.
func (w *Workspace) Remove(ctx context.Context, id string) error {
	return w.registry.Remove(ctx, id)
}

// Upload submits req, refreshes the registry and, when selectNew is set,
// opens the new document.
func (w *Workspace) Upload(ctx context.Context, req domain.UploadRequest, selectNew bool) (string, error) {
	id, err := w.upload.Upload(ctx, req)
	if err != nil {
		return "", err
	}

	if err := w.Refresh(ctx); err != nil {
		logger.Warn("workspace: refresh after upload failed: %v", err)
		return id, nil
	}

	if selectNew {
		if _, err := w.Open(ctx, id); err != nil {
			logger.Warn("workspace: loading history for %s failed: %v", id, err)
		}
	}
	return id, nil
}

// Send posts a chat message for the selected document.
func (w *Workspace) Send(ctx context.Context, message string) (*domain.ChatEntry, error) {
	entry, err := w.chat.Send(ctx, message)
	if domain.IsStale(err) {
		return nil, nil
	}
	return entry, err
}

// Chat returns a snapshot of the chat session.
func (w *Workspace) Chat() domain.ChatSnapshot {
	return w.chat.Snapshot()
}
