package domain

import "time"

// ChatEntry is one user/bot exchange in a document's transcript.
type ChatEntry struct {
	// ID is the backend id for history entries, or a client id for
	// entries finalized in this session. Empty while pending.
	ID string

	// Timestamp is when the exchange happened.
	Timestamp time.Time

	// UserMessage is the message exactly as the user sent it.
	UserMessage string

	// BotResponse is the answer. Empty while pending.
	BotResponse string

	// Pending marks the optimistic entry awaiting the server's answer.
	Pending bool

	// Request is the per-selection sequence number of the send that
	// created this entry. Zero for entries loaded from history.
	Request uint64
}

// ChatState is the state of a chat session.
type ChatState int

// Chat session states.
const (
	// ChatIdle means no document is bound.
	ChatIdle ChatState = iota

	// ChatLoading means the history fetch is in flight.
	ChatLoading

	// ChatReady means the transcript is loaded and sends are accepted.
	ChatReady

	// ChatSending means one pending entry is awaiting its answer.
	ChatSending

	// ChatError means the history fetch failed.
	ChatError
)

// String returns the string representation.
func (s ChatState) String() string {
	switch s {
	case ChatIdle:
		return "idle"
	case ChatLoading:
		return "loading"
	case ChatReady:
		return "ready"
	case ChatSending:
		return "sending"
	case ChatError:
		return "error"
	default:
		return "unknown"
	}
}

// ChatSnapshot is a point-in-time copy of a chat session.
type ChatSnapshot struct {
	// Document is the bound document, nil when idle.
	Document *Document

	// State is the session state.
	State ChatState

	// Entries is the transcript, oldest first. A pending entry is always last.
	Entries []ChatEntry

	// Err is the history load error, set in ChatError.
	Err error

	// SendErr is the error from the most recent failed send.
	SendErr error

	// Generation increases on every reset.
	Generation uint64
}

// Pending returns the pending entry, or nil.
func (s ChatSnapshot) Pending() *ChatEntry {
	if n := len(s.Entries); n > 0 && s.Entries[n-1].Pending {
		entry := s.Entries[n-1]
		return &entry
	}
	return nil
}
