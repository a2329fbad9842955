package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// outcome is a scripted result for a gated call.
type outcome[T any] struct {
	val T
	err error
}

// gate holds calls until the test resolves them, in any order.
type gate[T any] struct {
	mu      sync.Mutex
	calls   []chan outcome[T]
	started chan struct{}
}

func newGate[T any]() *gate[T] {
	return &gate[T]{started: make(chan struct{}, 64)}
}

func (g *gate[T]) wait(ctx context.Context) (T, error) {
	ch := make(chan outcome[T], 1)
	g.mu.Lock()
	g.calls = append(g.calls, ch)
	g.mu.Unlock()
	g.started <- struct{}{}

	select {
	case o := <-ch:
		return o.val, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// awaitCalls blocks until n calls have entered the gate.
func (g *gate[T]) awaitCalls(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-g.started:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for call %d", i+1)
		}
	}
}

func (g *gate[T]) resolve(i int, val T, err error) {
	g.mu.Lock()
	ch := g.calls[i]
	g.mu.Unlock()
	ch <- outcome[T]{val: val, err: err}
}

// detailError is a transport error carrying a server message.
type detailError struct {
	status int
	detail string
}

func (e *detailError) Error() string        { return "server error" }
func (e *detailError) ServerDetail() string { return e.detail }

// fakeBackend implements driven.BackendAPI. Gates, when set, take
// precedence over the static results.
type fakeBackend struct {
	mu sync.Mutex

	docs      []domain.Document
	listErr   error
	listGate  *gate[[]domain.Document]
	listCalls int

	deleteErr   error
	deleted     []string
	uploadID    string
	uploadErr   error
	uploadCalls int
	uploads     []domain.UploadRequest

	history      map[string][]domain.ChatEntry
	historyErr   error
	historyGate  *gate[[]domain.ChatEntry]
	historyCalls int

	answer    string
	chatErr   error
	chatGate  *gate[string]
	chatCalls int

	profile        *domain.Profile
	profileErr     error
	registered     []domain.SignUpRequest
	googleCalls    int
	imageURL       string
	profileUpdates []domain.ProfileUpdate
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{history: make(map[string][]domain.ChatEntry)}
}

func (f *fakeBackend) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	f.mu.Lock()
	f.listCalls++
	g := f.listGate
	docs, err := append([]domain.Document(nil), f.docs...), f.listErr
	f.mu.Unlock()
	if g != nil {
		return g.wait(ctx)
	}
	return docs, err
}

func (f *fakeBackend) UploadDocument(_ context.Context, req domain.UploadRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	f.uploads = append(f.uploads, req)
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.docs = append(f.docs, domain.Document{ID: f.uploadID, Title: req.Title})
	return f.uploadID, nil
}

func (f *fakeBackend) DeleteDocument(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	kept := f.docs[:0]
	for _, d := range f.docs {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	f.docs = kept
	return nil
}

func (f *fakeBackend) Chat(ctx context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	f.chatCalls++
	g := f.chatGate
	answer, err := f.answer, f.chatErr
	f.mu.Unlock()
	if g != nil {
		return g.wait(ctx)
	}
	return answer, err
}

func (f *fakeBackend) ChatHistory(ctx context.Context, documentID string) ([]domain.ChatEntry, error) {
	f.mu.Lock()
	f.historyCalls++
	g := f.historyGate
	history, err := append([]domain.ChatEntry(nil), f.history[documentID]...), f.historyErr
	f.mu.Unlock()
	if g != nil {
		return g.wait(ctx)
	}
	return history, err
}

func (f *fakeBackend) RegisterUser(_ context.Context, req domain.SignUpRequest) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, req)
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &domain.Profile{ID: "u1", Email: req.Email, Name: req.Name}, nil
}

func (f *fakeBackend) RegisterGoogleUser(_ context.Context) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.googleCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeBackend) GetProfile(_ context.Context) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile, f.profileErr
}

func (f *fakeBackend) UpdateProfile(_ context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileUpdates = append(f.profileUpdates, update)
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	p := *f.profile
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Bio != nil {
		p.Bio = *update.Bio
	}
	f.profile = &p
	return &p, nil
}

func (f *fakeBackend) UploadProfileImage(_ context.Context, _ domain.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.imageURL, f.profileErr
}

func (f *fakeBackend) calls() (list, history, chat, upload int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.historyCalls, f.chatCalls, f.uploadCalls
}

// run starts fn in a goroutine and returns a channel with its error.
func run(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	return done
}

func recv(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
		return nil
	}
}
