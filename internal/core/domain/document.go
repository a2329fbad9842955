package domain

import "time"

// Document is a document owned by the current identity.
// Documents are immutable on the client; only a re-fetch changes them.
type Document struct {
	// ID is assigned by the backend and unique per user.
	ID string

	// Title is the human-readable title given at upload.
	Title string

	// UploadedAt is when the backend accepted the upload.
	UploadedAt time.Time

	// FileURL points at the stored file. Empty when the backend omits it.
	FileURL string
}

// LoadStatus describes the state of a fetched collection.
type LoadStatus int

// Load statuses. Views distinguish loading, empty and errored states
// from these; an empty Ready collection is "empty".
const (
	StatusIdle LoadStatus = iota
	StatusLoading
	StatusReady
	StatusError
)

// String returns the string representation.
func (s LoadStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// FindDocument returns the document with the given id, or nil.
func FindDocument(docs []Document, id string) *Document {
	if id == "" {
		return nil
	}
	for i := range docs {
		if docs[i].ID == id {
			doc := docs[i]
			return &doc
		}
	}
	return nil
}
