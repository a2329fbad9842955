package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure LocalStorage implements the interface.
var _ driven.LocalStorage = (*LocalStorage)(nil)

// LocalStorage is an in-memory implementation of driven.LocalStorage.
type LocalStorage struct {
	mu     sync.RWMutex
	values map[string]string
	err    error
}

// NewLocalStorage creates an empty in-memory local storage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{values: make(map[string]string)}
}

// Get returns the value for key, or domain.ErrNotFound.
func (s *LocalStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return "", s.err
	}
	val, ok := s.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return val, nil
}

// Set stores value under key.
func (s *LocalStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.values[key] = value
	return nil
}

// Remove deletes key.
func (s *LocalStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.values, key)
	return nil
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (s *LocalStorage) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Len returns the number of stored keys.
func (s *LocalStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
