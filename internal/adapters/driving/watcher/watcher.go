// Package watcher reloads the session when another docchat process
// changes the shared session database.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// DefaultDebounce coalesces the burst of events a single SQLite commit
// produces on the database, journal and WAL files.
const DefaultDebounce = 250 * time.Millisecond

// Reloader re-reads persisted state. SessionStore implements it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher calls Reload after files matching a prefix in a directory change.
type Watcher struct {
	dir      string
	prefix   string
	reloader Reloader
	debounce time.Duration

	watcher *fsnotify.Watcher

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	done   chan struct{}
}

// New watches dir for changes to files whose names start with prefix.
// A debounce of zero uses DefaultDebounce.
func New(dir, prefix string, reloader Reloader, debounce time.Duration) (*Watcher, error) {
	if reloader == nil {
		return nil, errors.New("watcher: reloader is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	return &Watcher{
		dir:      dir,
		prefix:   prefix,
		reloader: reloader,
		debounce: debounce,
		watcher:  fsw,
	}, nil
}

// Start begins watching. Events are processed until ctx ends or Close.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watcher: watch %s: %w", w.dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.run(ctx)
	logger.Debug("watcher: watching %s for %s*", w.dir, w.prefix)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.schedule(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// relevant reports whether event may have changed the watched files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !strings.HasPrefix(filepath.Base(event.Name), w.prefix) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.reloader.Reload(ctx); err != nil {
			logger.Warn("watcher: reload failed: %v", err)
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return w.watcher.Close()
}
