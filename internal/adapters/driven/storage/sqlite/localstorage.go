package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// localStorage implements driven.LocalStorage on the kv table.
type localStorage struct {
	store *Store
}

var _ driven.LocalStorage = (*localStorage)(nil)

// Get returns the value for key, or domain.ErrNotFound.
func (l *localStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := l.store.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (l *localStorage) Set(ctx context.Context, key, value string) error {
	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (l *localStorage) Remove(ctx context.Context, key string) error {
	if _, err := l.store.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}
