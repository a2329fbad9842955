package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *countingReloader) Reload(_ context.Context) error {
	r.calls.Add(1)
	return r.err
}

const testDebounce = 50 * time.Millisecond

func startWatcher(t *testing.T, reloader Reloader) string {
	t.Helper()
	dir := t.TempDir()
	w, err := New(dir, "docchat.db", reloader, testDebounce)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Close() })
	return dir
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(time.Now().String()), 0600))
}

func TestNew_RequiresReloader(t *testing.T) {
	w, err := New(t.TempDir(), "docchat.db", nil, 0)

	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestNew_DefaultDebounce(t *testing.T) {
	w, err := New(t.TempDir(), "docchat.db", &countingReloader{}, 0)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestWatcher_ReloadsOnDatabaseWrite(t *testing.T) {
	reloader := &countingReloader{}
	dir := startWatcher(t, reloader)

	touch(t, filepath.Join(dir, "docchat.db-wal"))

	assert.Eventually(t, func() bool { return reloader.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	reloader := &countingReloader{}
	dir := startWatcher(t, reloader)

	for i := 0; i < 5; i++ {
		touch(t, filepath.Join(dir, "docchat.db"))
	}

	require.Eventually(t, func() bool { return reloader.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, int32(1), reloader.calls.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	reloader := &countingReloader{}
	dir := startWatcher(t, reloader)

	touch(t, filepath.Join(dir, "config.toml"))

	time.Sleep(4 * testDebounce)
	assert.Zero(t, reloader.calls.Load())
}

func TestWatcher_KeepsWatchingAfterReloadError(t *testing.T) {
	reloader := &countingReloader{err: errors.New("database is locked")}
	dir := startWatcher(t, reloader)

	touch(t, filepath.Join(dir, "docchat.db"))
	require.Eventually(t, func() bool { return reloader.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	time.Sleep(2 * testDebounce)
	touch(t, filepath.Join(dir, "docchat.db"))
	assert.Eventually(t, func() bool { return reloader.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing"), "docchat.db", &countingReloader{}, 0)
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Start(context.Background()))
}

func TestWatcher_CloseStopsReloads(t *testing.T) {
	reloader := &countingReloader{}
	dir := t.TempDir()
	w, err := New(dir, "docchat.db", reloader, testDebounce)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, w.Close())
	touch(t, filepath.Join(dir, "docchat.db"))

	time.Sleep(3 * testDebounce)
	assert.Zero(t, reloader.calls.Load())
}
