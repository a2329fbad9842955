// Package servicestest provides an in-memory driving.Workspace for testing
// driving adapters.
package servicestest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// Ensure Workspace implements the interface.
var _ driving.Workspace = (*Workspace)(nil)

// Workspace is a scripted driving.Workspace. Set the exported fields before
// use; the error fields make the matching operation fail.
type Workspace struct {
	mu sync.Mutex

	Docs   []domain.Document
	Answer string

	RefreshErr error
	HistoryErr error
	RemoveErr  error
	UploadErr  error
	SendErr    error

	// History is the transcript LoadHistory reports for any document.
	History []domain.ChatEntry

	// UploadID is returned by a successful Upload.
	UploadID string

	status   domain.LoadStatus
	loadErr  error
	selected *domain.Document
	chat     domain.ChatSnapshot
	sent     []string
	removed  []string
	uploads  []domain.UploadRequest
	refreshs int
}

// NewWorkspace returns a workspace holding docs.
func NewWorkspace(docs ...domain.Document) *Workspace {
	return &Workspace{Docs: docs, Answer: "answer", UploadID: "new-doc"}
}

// Refresh marks the collection ready, or errored when RefreshErr is set.
func (w *Workspace) Refresh(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.refreshs++
	if w.RefreshErr != nil {
		w.status = domain.StatusError
		w.loadErr = w.RefreshErr
		return w.RefreshErr
	}
	w.status = domain.StatusReady
	w.loadErr = nil
	return nil
}

// Documents returns a copy of Docs.
func (w *Workspace) Documents() []domain.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.Document(nil), w.Docs...)
}

// Status returns the collection status.
func (w *Workspace) Status() (domain.LoadStatus, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status, w.loadErr
}

// SetStatus forces the collection status.
func (w *Workspace) SetStatus(status domain.LoadStatus, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	w.loadErr = err
}

// Selected returns the selected document.
func (w *Workspace) Selected() *domain.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyDoc(w.selected)
}

// Select selects id and resets the chat.
func (w *Workspace) Select(id string) *domain.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectLocked(id)
}

func (w *Workspace) selectLocked(id string) *domain.Document {
	doc := domain.FindDocument(w.Docs, id)
	w.selected = doc
	w.chat = domain.ChatSnapshot{Document: copyDoc(doc), Generation: w.chat.Generation + 1}
	if doc != nil {
		w.chat.State = domain.ChatLoading
	}
	return copyDoc(doc)
}

// LoadHistory loads History into the chat.
func (w *Workspace) LoadHistory(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadLocked()
}

func (w *Workspace) loadLocked() error {
	if w.chat.Document == nil {
		return nil
	}
	if w.HistoryErr != nil {
		w.chat.State = domain.ChatError
		w.chat.Err = w.HistoryErr
		return w.HistoryErr
	}
	w.chat.State = domain.ChatReady
	w.chat.Entries = append([]domain.ChatEntry(nil), w.History...)
	return nil
}

// Open selects id and loads its history.
func (w *Workspace) Open(_ context.Context, id string) (*domain.Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc := w.selectLocked(id)
	if doc == nil {
		return nil, nil
	}
	return doc, w.loadLocked()
}

// Remove deletes id from Docs.
func (w *Workspace) Remove(_ context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selected != nil && w.selected.ID == id {
		w.selectLocked("")
	}
	if w.RemoveErr != nil {
		return w.RemoveErr
	}
	w.removed = append(w.removed, id)
	for i := range w.Docs {
		if w.Docs[i].ID == id {
			w.Docs = append(w.Docs[:i], w.Docs[i+1:]...)
			break
		}
	}
	return nil
}

// Upload records req, adds a document titled req.Title and optionally
// opens it. It rejects requests without a file or title.
func (w *Workspace) Upload(_ context.Context, req domain.UploadRequest, selectNew bool) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if req.File == nil || strings.TrimSpace(req.Title) == "" {
		return "", domain.NewValidationError("Please provide both a file and title", map[string]string{"file": "required"})
	}
	w.uploads = append(w.uploads, req)
	if w.UploadErr != nil {
		return "", w.UploadErr
	}

	w.Docs = append(w.Docs, domain.Document{ID: w.UploadID, Title: req.Title})
	if selectNew {
		w.selectLocked(w.UploadID)
		_ = w.loadLocked()
	}
	return w.UploadID, nil
}

// Send answers with Answer, or fails with SendErr. Like the real session
// it ignores blank messages and sends while the chat is not ready.
func (w *Workspace) Send(_ context.Context, message string) (*domain.ChatEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if strings.TrimSpace(message) == "" || w.chat.State != domain.ChatReady {
		return nil, nil
	}
	w.sent = append(w.sent, message)
	if w.SendErr != nil {
		w.chat.SendErr = w.SendErr
		return nil, w.SendErr
	}

	entry := domain.ChatEntry{
		ID:          fmt.Sprintf("entry-%d", len(w.sent)),
		UserMessage: message,
		BotResponse: w.Answer,
	}
	w.chat.Entries = append(w.chat.Entries, entry)
	w.chat.SendErr = nil
	return &entry, nil
}

// Chat returns a copy of the chat snapshot.
func (w *Workspace) Chat() domain.ChatSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := w.chat
	snap.Document = copyDoc(w.chat.Document)
	snap.Entries = append([]domain.ChatEntry(nil), w.chat.Entries...)
	return snap
}

// SetChat replaces the chat snapshot.
func (w *Workspace) SetChat(snap domain.ChatSnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chat = snap
}

// Sent returns the messages sent so far.
func (w *Workspace) Sent() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.sent...)
}

// Removed returns the ids removed so far.
func (w *Workspace) Removed() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.removed...)
}

// Uploads returns the accepted upload requests.
func (w *Workspace) Uploads() []domain.UploadRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.UploadRequest(nil), w.uploads...)
}

// Refreshes returns how many times Refresh was called.
func (w *Workspace) Refreshes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.refreshs
}

func copyDoc(doc *domain.Document) *domain.Document {
	if doc == nil {
		return nil
	}
	d := *doc
	return &d
}
