package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "docchat")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigStore_SetAndTypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "https://docs.example.com"))
	require.NoError(t, store.Set("api.burst", int64(5)))
	require.NoError(t, store.Set("api.rate_limit", 2.5))
	require.NoError(t, store.Set("display.markdown", false))
	require.NoError(t, store.Set("upload.extensions", []string{".pdf", ".txt"}))

	assert.Equal(t, "https://docs.example.com", store.GetString("api.base_url"))
	assert.Equal(t, 5, store.GetInt("api.burst"))
	assert.InDelta(t, 2.5, store.GetFloat("api.rate_limit"), 1e-9)
	assert.False(t, store.GetBool("display.markdown"))
	assert.Equal(t, []string{".pdf", ".txt"}, store.GetStringSlice("upload.extensions"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("missing")

	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "https://docs.example.com"))
	require.NoError(t, store.Set("api.timeout_seconds", int64(30)))
	require.NoError(t, store.Set("firebase.api_key", "key-123"))

	content, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[api]")
	assert.Contains(t, string(content), "[firebase]")

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com", reopened.GetString("api.base_url"))
	assert.Equal(t, 30, reopened.GetInt("api.timeout_seconds"))
	assert.Equal(t, "key-123", reopened.GetString("firebase.api_key"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[api]
base_url = "http://localhost:9000"
rate_limit = 4

[upload]
max_size = "5MB"
extensions = [".pdf", ".md"]
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", store.GetString("api.base_url"))
	assert.InDelta(t, 4.0, store.GetFloat("api.rate_limit"), 1e-9)
	assert.Equal(t, "5MB", store.GetString("upload.max_size"))
	assert.Equal(t, []string{".pdf", ".md"}, store.GetStringSlice("upload.extensions"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("firebase.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[api\nbroken"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("api.burst", int64(n))
			_ = store.GetInt("api.burst")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("api.burst")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"api.base_url": "x",
		"api.burst":    int64(2),
		"top":          true,
	})

	assert.Equal(t, map[string]any{
		"api": map[string]any{"base_url": "x", "burst": int64(2)},
		"top": true,
	}, nested)
}

func TestNestMap_ValueWinsOverTable(t *testing.T) {
	nested := nestMap(map[string]any{
		"api":       "plain",
		"api.burst": int64(2),
	})

	assert.Equal(t, map[string]any{"api": "plain"}, nested)
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"api": map[string]any{"base_url": "x", "limits": map[string]any{"burst": int64(2)}},
	}, "")

	assert.Equal(t, map[string]any{"api.base_url": "x", "api.limits.burst": int64(2)}, flat)
}
