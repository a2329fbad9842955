package driven

import "context"

// LocalStorage is durable key/value storage that survives restarts.
type LocalStorage interface {
	// Get returns the value for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
