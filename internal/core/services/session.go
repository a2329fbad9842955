package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure SessionStore implements the interface.
var _ driving.SessionStore = (*SessionStore)(nil)

// SessionStore mirrors the identity provider into application state.
// It is the only writer of the persisted identity.
type SessionStore struct {
	storage driven.LocalStorage
	now     func() time.Time

	mu       sync.Mutex
	identity *domain.Identity
	err      error
	nextSub  int
	subs     []subscriber
}

type subscriber struct {
	id int
	fn driven.IdentityListener
}

// NewSessionStore creates a session store backed by storage.
func NewSessionStore(storage driven.LocalStorage) *SessionStore {
	return &SessionStore{
		storage: storage,
		now:     time.Now,
	}
}

// OnIdentityChanged stores identity, or clears it when nil, and notifies
// subscribers. An identity without an id or token is never retained.
func (s *SessionStore) OnIdentityChanged(ctx context.Context, identity *domain.Identity) error {
	if identity == nil {
		logger.Debug("session: signed out")
		err := s.storage.Remove(ctx, domain.PersistedIdentityKey)
		s.set(nil, nil)
		s.notify(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to remove persisted identity: %w", err)
		}
		return nil
	}

	if !identity.Complete() {
		authErr := domain.NewAuthError(domain.ErrIncompleteIdentity)
		s.fail(ctx, authErr)
		return authErr
	}

	stored := *identity
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now()
	}

	if err := s.persist(ctx, &stored); err != nil {
		wrapped := fmt.Errorf("failed to persist identity: %w", err)
		s.fail(ctx, wrapped)
		return wrapped
	}

	s.mu.Lock()
	unchanged := s.identity.Same(&stored) && s.err == nil
	s.mu.Unlock()
	s.set(&stored, nil)
	if unchanged {
		logger.Debug("session: identity for %s unchanged", stored.Email)
		return nil
	}

	logger.Debug("session: signed in as %s (token %s)", stored.Email, logger.Redact(stored.Token))
	s.notify(ctx, &stored)
	return nil
}

// OnProviderError surfaces a provider failure. The identity is cleared
// rather than left half-populated.
func (s *SessionStore) OnProviderError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	s.fail(ctx, domain.NewAuthError(err))
}

// Reload re-reads the persisted identity and notifies subscribers when it
// differs from the one held in memory.
func (s *SessionStore) Reload(ctx context.Context) error {
	loaded, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	changed := !s.identity.Same(loaded)
	if changed {
		s.identity = loaded
		s.err = nil
	}
	s.mu.Unlock()

	if changed {
		logger.Debug("session: persisted identity changed externally")
		s.notify(ctx, copyIdentity(loaded))
	}
	return nil
}

// Current returns a copy of the identity, or nil when signed out.
func (s *SessionStore) Current() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyIdentity(s.identity)
}

// Err returns the last provider or persistence error.
func (s *SessionStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Subscribe registers fn for identity changes.
func (s *SessionStore) Subscribe(fn driven.IdentityListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.subs {
			if s.subs[i].id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *SessionStore) set(identity *domain.Identity, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.err = err
}

// fail clears the identity and its persisted copy and records err.
func (s *SessionStore) fail(ctx context.Context, err error) {
	logger.Warn("session: %v", err)
	if rmErr := s.storage.Remove(ctx, domain.PersistedIdentityKey); rmErr != nil {
		logger.Warn("session: failed to remove persisted identity: %v", rmErr)
	}
	s.set(nil, err)
	s.notify(ctx, nil)
}

// notify calls subscribers in registration order without holding the lock.
func (s *SessionStore) notify(ctx context.Context, identity *domain.Identity) {
	s.mu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(ctx, copyIdentity(identity))
	}
}

func (s *SessionStore) persist(ctx context.Context, identity *domain.Identity) error {
	data, err := json.Marshal(identity.Persisted())
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, domain.PersistedIdentityKey, string(data))
}

func (s *SessionStore) load(ctx context.Context) (*domain.Identity, error) {
	raw, err := s.storage.Get(ctx, domain.PersistedIdentityKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read persisted identity: %w", err)
	}

	var p domain.PersistedIdentity
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode persisted identity: %w", err)
	}

	identity := p.Identity()
	if !identity.Complete() {
		return nil, nil
	}
	return identity, nil
}

func copyIdentity(identity *domain.Identity) *domain.Identity {
	if identity == nil {
		return nil
	}
	c := *identity
	return &c
}
