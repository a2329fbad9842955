package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure ChatSession implements the interface.
var _ driving.ChatSession = (*ChatSession)(nil)

// Fallback messages when the server sends no detail.
const (
	msgFetchHistory = "Failed to fetch chat history"
	msgChat         = "Failed to chat with document"
)

// ChatSession owns one transcript bound to at most one document.
//
// The generation advances on every Reset. History and send results carry
// the generation they were issued under and are dropped on mismatch, so a
// late answer for a previous document can never reach the new transcript.
type ChatSession struct {
	api   driven.ChatAPI
	newID func() string
	now   func() time.Time

	mu         sync.Mutex
	doc        *domain.Document
	state      domain.ChatState
	entries    []domain.ChatEntry
	err        error
	sendErr    error
	generation uint64
	requests   uint64
}

// NewChatSession creates an idle chat session.
func NewChatSession(api driven.ChatAPI) *ChatSession {
	return &ChatSession{
		api:   api,
		newID: uuid.NewString,
		now:   time.Now,
		state: domain.ChatIdle,
	}
}

// Reset discards the transcript and errors and binds the session to doc.
// The session enters Loading when doc is set and Idle otherwise.
func (c *ChatSession) Reset(doc *domain.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.requests = 0
	c.entries = nil
	c.err = nil
	c.sendErr = nil
	c.doc = copyDocument(doc)
	if doc != nil {
		c.state = domain.ChatLoading
		logger.Debug("chat: reset to document %s (generation %d)", doc.ID, c.generation)
	} else {
		c.state = domain.ChatIdle
		logger.Debug("chat: reset to no document (generation %d)", c.generation)
	}
}

// Load fetches the history of the bound document, oldest first. It is a
// no-op when no document is bound or a send is in flight.
func (c *ChatSession) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.doc == nil || c.state == domain.ChatSending {
		c.mu.Unlock()
		return nil
	}
	gen := c.generation
	docID := c.doc.ID
	c.state = domain.ChatLoading
	c.err = nil
	c.mu.Unlock()

	history, err := c.api.ChatHistory(ctx, docID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		logger.Debug("chat: discarded history for %s (generation %d, now %d)", docID, gen, c.generation)
		return domain.ErrStaleResponse
	}

	if err != nil {
		c.entries = nil
		c.state = domain.ChatError
		c.err = domain.NewFetchError(msgFetchHistory, err)
		return c.err
	}

	entries := make([]domain.ChatEntry, 0, len(history))
	for i := range history {
		entry := history[i]
		entry.Pending = false
		entry.Request = 0
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	c.entries = entries
	c.state = domain.ChatReady
	logger.Debug("chat: loaded %d entries for %s", len(entries), docID)
	return nil
}

// Open resets the session to doc and loads its history.
func (c *ChatSession) Open(ctx context.Context, doc *domain.Document) error {
	c.Reset(doc)
	return c.Load(ctx)
}

// Send appends a pending entry for message and posts it. On success the
// pending entry is replaced by a finalized one carrying the answer and a
// fresh id. On failure it is removed, leaving the transcript as it was
// before the call. Blank messages, no bound document and any state other
// than Ready make Send a no-op.
func (c *ChatSession) Send(ctx context.Context, message string) (*domain.ChatEntry, error) {
	if strings.TrimSpace(message) == "" {
		return nil, nil
	}

	c.mu.Lock()
	if c.doc == nil || c.state != domain.ChatReady {
		c.mu.Unlock()
		return nil, nil
	}
	c.requests++
	req := c.requests
	gen := c.generation
	docID := c.doc.ID
	c.entries = append(c.entries, domain.ChatEntry{
		Timestamp:   c.now(),
		UserMessage: message,
		Pending:     true,
		Request:     req,
	})
	c.state = domain.ChatSending
	c.sendErr = nil
	c.mu.Unlock()

	answer, err := c.api.Chat(ctx, docID, message)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		logger.Debug("chat: discarded answer for %s request %d", docID, req)
		return nil, domain.ErrStaleResponse
	}

	idx := c.pendingIndex(req)
	c.state = domain.ChatReady

	if err != nil {
		if idx >= 0 {
			c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
		}
		c.sendErr = domain.NewMutationError(msgChat, err)
		return nil, c.sendErr
	}

	entry := domain.ChatEntry{
		ID:          c.newID(),
		Timestamp:   c.now(),
		UserMessage: message,
		BotResponse: answer,
	}
	if idx >= 0 {
		c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	}
	c.entries = append(c.entries, entry)
	return &entry, nil
}

// Snapshot returns a copy of the session.
func (c *ChatSession) Snapshot() domain.ChatSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.ChatSnapshot{
		Document:   copyDocument(c.doc),
		State:      c.state,
		Entries:    append([]domain.ChatEntry(nil), c.entries...),
		Err:        c.err,
		SendErr:    c.sendErr,
		Generation: c.generation,
	}
}

// pendingIndex finds the pending entry for req (caller must hold lock).
func (c *ChatSession) pendingIndex(req uint64) int {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Pending && c.entries[i].Request == req {
			return i
		}
	}
	return -1
}
