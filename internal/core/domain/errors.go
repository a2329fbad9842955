package domain

import (
	"errors"
	"sort"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotAuthenticated indicates no identity is persisted.
	ErrNotAuthenticated = errors.New("Not authenticated")

	// ErrNoToken indicates the persisted identity carries no token.
	ErrNoToken = errors.New("No token available")

	// ErrAuthExpired indicates the persisted token has expired.
	ErrAuthExpired = errors.New("token expired")

	// ErrIncompleteIdentity indicates the provider reported an identity
	// without a user id or token.
	ErrIncompleteIdentity = errors.New("incomplete identity")

	// ErrNoDocumentSelected indicates an operation needs a selected document.
	ErrNoDocumentSelected = errors.New("no document selected")
)

// ErrorKind tags an Error with the class of failure it represents.
type ErrorKind string

// Error kinds.
const (
	// KindAuthentication means there is no usable token.
	KindAuthentication ErrorKind = "authentication"

	// KindValidation means required client-side fields are missing.
	// Validation errors never reach the network layer.
	KindValidation ErrorKind = "validation"

	// KindFetch means a read operation failed on the network or server.
	KindFetch ErrorKind = "fetch"

	// KindMutation means a write operation failed (upload, delete, send, profile update).
	KindMutation ErrorKind = "mutation"

	// KindStale means a response arrived for a superseded request and was dropped.
	// It is never shown to users.
	KindStale ErrorKind = "stale"
)

// Error is the tagged error variant returned by services.
// Message is always human-readable; Fields is only set for validation errors.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind) + " error"
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// FieldNames returns the invalid field names in sorted order.
func (e *Error) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewValidationError creates a validation error for the given fields.
func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NewAuthError creates an authentication error wrapping cause.
func NewAuthError(cause error) *Error {
	return &Error{
		Kind:    KindAuthentication,
		Message: "Authentication error: " + cause.Error(),
		Err:     cause,
	}
}

// NewFetchError creates a fetch error. The server detail carried by cause
// is preferred over fallback.
func NewFetchError(fallback string, cause error) *Error {
	return &Error{Kind: KindFetch, Message: messageFor(fallback, cause), Err: cause}
}

// NewMutationError creates a mutation error. The server detail carried by
// cause is preferred over fallback.
func NewMutationError(fallback string, cause error) *Error {
	return &Error{Kind: KindMutation, Message: messageFor(fallback, cause), Err: cause}
}

// ErrStaleResponse is returned when a result was discarded because a newer
// request superseded it.
var ErrStaleResponse = &Error{Kind: KindStale, Message: "stale response discarded"}

// IsKind reports whether any Error in err's chain has the given kind.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// IsStale reports whether err is a discarded stale response.
func IsStale(err error) bool {
	return IsKind(err, KindStale)
}

// ServerDetailer is implemented by transport errors that carry a
// human-readable message from the server.
type ServerDetailer interface {
	ServerDetail() string
}

// ServerDetail extracts the server-provided message from err, if any.
func ServerDetail(err error) string {
	var d ServerDetailer
	if errors.As(err, &d) {
		return strings.TrimSpace(d.ServerDetail())
	}
	return ""
}

func messageFor(fallback string, cause error) string {
	if detail := ServerDetail(cause); detail != "" {
		return detail
	}
	return fallback
}
