package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var (
	leaseDoc = domain.Document{
		ID:         "doc-1",
		Title:      "Lease agreement",
		UploadedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		FileURL:    "https://files.example.com/lease.pdf",
	}
	taxDoc = domain.Document{ID: "doc-2", Title: "Tax return"}
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDocumentList_Empty(t *testing.T) {
	env := setupTestServices(t)

	out, _, err := executeCommand(t, "", "document", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents uploaded yet.")
	assert.Equal(t, 1, env.workspace.Refreshes())
}

func TestDocumentList_MarksSelection(t *testing.T) {
	env := setupTestServices(t, leaseDoc, taxDoc)
	require.NoError(t, env.selection.Set(context.Background(), selectedDocumentKey, "doc-2"))

	out, _, err := executeCommand(t, "", "doc", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "  doc-1\n")
	assert.Contains(t, out, "* doc-2\n")
	assert.Contains(t, out, "Title:    Lease agreement")
	assert.Contains(t, out, "File:     https://files.example.com/lease.pdf")
	assert.Contains(t, out, "Uploaded: -")
	assert.Contains(t, out, "Total: 2 documents")
}

func TestDocumentList_RefreshError(t *testing.T) {
	env := setupTestServices(t)
	env.workspace.RefreshErr = domain.NewFetchError("Failed to fetch documents", nil)

	_, _, err := executeCommand(t, "", "document", "list")

	assert.EqualError(t, err, "Failed to fetch documents")
}

func TestDocumentUpload(t *testing.T) {
	env := setupTestServices(t)
	path := writeTempFile(t, "report.txt", "quarterly numbers")

	out, _, err := executeCommand(t, "", "document", "upload", path, "--title", "Q3 report")

	require.NoError(t, err)
	uploads := env.workspace.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "Q3 report", uploads[0].Title)
	assert.Equal(t, "report.txt", uploads[0].File.Name)
	assert.Equal(t, int64(17), uploads[0].File.Size)
	assert.Contains(t, out, "Uploading report.txt (17B)...")
	assert.Contains(t, out, "Uploaded document new-doc")
	assert.NotContains(t, out, "Selected for chat")
	assert.Equal(t, 0, env.selection.Len())
}

func TestDocumentUpload_Select(t *testing.T) {
	env := setupTestServices(t)
	path := writeTempFile(t, "report.txt", "numbers")

	out, _, err := executeCommand(t, "", "document", "upload", path, "-t", "Q3 report", "--select")

	require.NoError(t, err)
	assert.Contains(t, out, "Selected for chat")
	id, err := env.selection.Get(context.Background(), selectedDocumentKey)
	require.NoError(t, err)
	assert.Equal(t, "new-doc", id)
}

func TestDocumentUpload_MissingTitle(t *testing.T) {
	env := setupTestServices(t)
	path := writeTempFile(t, "report.txt", "numbers")

	_, stderr, err := executeCommand(t, "", "document", "upload", path)

	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Contains(t, stderr, "file: required")
	assert.Empty(t, env.workspace.Uploads())
}

func TestDocumentUpload_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, _, err := executeCommand(t, "", "document", "upload", filepath.Join(t.TempDir(), "nope.pdf"), "-t", "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocumentUpload_Directory(t *testing.T) {
	setupTestServices(t)

	_, _, err := executeCommand(t, "", "document", "upload", t.TempDir(), "-t", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestDocumentDelete_ClearsSelection(t *testing.T) {
	env := setupTestServices(t, leaseDoc, taxDoc)
	require.NoError(t, env.selection.Set(context.Background(), selectedDocumentKey, "doc-1"))

	out, _, err := executeCommand(t, "", "document", "delete", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, env.workspace.Removed())
	assert.Equal(t, 0, env.selection.Len())
	assert.Contains(t, out, "Deleted document doc-1")
}

func TestDocumentDelete_KeepsOtherSelection(t *testing.T) {
	env := setupTestServices(t, leaseDoc, taxDoc)
	require.NoError(t, env.selection.Set(context.Background(), selectedDocumentKey, "doc-2"))

	_, _, err := executeCommand(t, "", "document", "delete", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, 1, env.selection.Len())
}

func TestDocumentDelete_Failure(t *testing.T) {
	env := setupTestServices(t, leaseDoc)
	env.workspace.RemoveErr = domain.NewMutationError("Failed to delete document", nil)

	_, _, err := executeCommand(t, "", "document", "delete", "doc-1")

	assert.True(t, domain.IsKind(err, domain.KindMutation))
}

func TestDocumentSelect(t *testing.T) {
	env := setupTestServices(t, leaseDoc, taxDoc)

	out, _, err := executeCommand(t, "", "document", "select", "doc-2")

	require.NoError(t, err)
	assert.Contains(t, out, "Selected Tax return (doc-2)")
	id, err := env.selection.Get(context.Background(), selectedDocumentKey)
	require.NoError(t, err)
	assert.Equal(t, "doc-2", id)
}

func TestDocumentSelect_Unknown(t *testing.T) {
	env := setupTestServices(t, leaseDoc)

	_, _, err := executeCommand(t, "", "document", "select", "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, env.selection.Len())
}

func TestDocumentSelect_StorageFailure(t *testing.T) {
	env := setupTestServices(t, leaseDoc)
	env.selection.FailWith(errors.New("disk full"))

	_, _, err := executeCommand(t, "", "document", "select", "doc-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save selection")
}

func TestDocument_NotConfigured(t *testing.T) {
	setupTestServices(t)
	SetServices(Services{})

	_, _, err := executeCommand(t, "", "document", "list")

	assert.EqualError(t, err, "workspace not configured")
}
