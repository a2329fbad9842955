package driven

import "context"

// TokenProvider supplies the bearer token for backend calls.
// It is read at the start of every call and never cached by callers.
type TokenProvider interface {
	// GetToken returns the current token or an authentication error.
	GetToken(ctx context.Context) (string, error)
}
