package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var (
	lease = domain.Document{
		ID:         "doc-1",
		Title:      "Lease agreement",
		UploadedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		FileURL:    "https://files.example.com/lease.pdf",
	}
	taxes = domain.Document{ID: "doc-2", Title: "Tax return"}
)

func TestServer_handleListDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("returns documents", func(t *testing.T) {
		server, ws := newTestServer(t, lease, taxes)

		_, out, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, out.Count)
		assert.Equal(t, DocumentOutput{
			ID:         "doc-1",
			Title:      "Lease agreement",
			UploadedAt: "2024-03-01T09:30:00Z",
			FileURL:    "https://files.example.com/lease.pdf",
		}, out.Documents[0])
		assert.Empty(t, out.Documents[1].UploadedAt)
		assert.Equal(t, 1, ws.Refreshes())
	})

	t.Run("empty collection", func(t *testing.T) {
		server, _ := newTestServer(t)

		_, out, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.NoError(t, err)
		assert.Equal(t, 0, out.Count)
		assert.NotNil(t, out.Documents)
	})

	t.Run("refresh failure", func(t *testing.T) {
		server, ws := newTestServer(t, lease)
		ws.RefreshErr = domain.NewFetchError("Failed to fetch documents", nil)

		_, _, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		assert.True(t, domain.IsKind(err, domain.KindFetch))
	})
}

func TestServer_handleChat(t *testing.T) {
	ctx := context.Background()

	t.Run("answers the question", func(t *testing.T) {
		server, ws := newTestServer(t, lease, taxes)
		ws.Answer = "The lease ends in June."

		_, out, err := server.handleChat(ctx, nil, ChatInput{DocumentID: "doc-1", Message: "When does it end?"})

		require.NoError(t, err)
		assert.Equal(t, "doc-1", out.DocumentID)
		assert.Equal(t, "When does it end?", out.Message)
		assert.Equal(t, "The lease ends in June.", out.Answer)
		assert.Equal(t, []string{"When does it end?"}, ws.Sent())
		assert.Equal(t, "doc-1", ws.Selected().ID)
	})

	t.Run("switches documents", func(t *testing.T) {
		server, ws := newTestServer(t, lease, taxes)

		_, _, err := server.handleChat(ctx, nil, ChatInput{DocumentID: "doc-1", Message: "a"})
		require.NoError(t, err)
		_, out, err := server.handleChat(ctx, nil, ChatInput{DocumentID: "doc-2", Message: "b"})

		require.NoError(t, err)
		assert.Equal(t, "doc-2", out.DocumentID)
		assert.Equal(t, "doc-2", ws.Selected().ID)
	})

	t.Run("missing fields", func(t *testing.T) {
		server, ws := newTestServer(t, lease)

		_, _, err := server.handleChat(ctx, nil, ChatInput{DocumentID: " ", Message: ""})

		require.True(t, domain.IsKind(err, domain.KindValidation))
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.ElementsMatch(t, []string{"document_id", "message"}, derr.FieldNames())
		assert.Empty(t, ws.Sent())
	})

	t.Run("unknown document", func(t *testing.T) {
		server, _ := newTestServer(t, lease)

		_, _, err := server.handleChat(ctx, nil, ChatInput{DocumentID: "nope", Message: "hi"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("history failure", func(t *testing.T) {
		server, ws := newTestServer(t, lease)
		ws.HistoryErr = domain.NewFetchError("Failed to fetch chat history", nil)

		_, _, err := server.handleChat(ctx, nil, ChatInput{DocumentID: "doc-1", Message: "hi"})

		assert.EqualError(t, err, "Failed to fetch chat history")
		assert.Empty(t, ws.Sent())
	})

	t.Run("send failure", func(t *testing.T) {
		server, ws := newTestServer(t, lease)
		ws.SendErr = errors.New("Failed to send message")

		_, _, err := server.handleChat(ctx, nil, ChatInput{DocumentID: "doc-1", Message: "hi"})

		assert.EqualError(t, err, "Failed to send message")
	})
}

func TestServer_handleHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns settled entries", func(t *testing.T) {
		server, ws := newTestServer(t, lease)
		ws.History = []domain.ChatEntry{
			{ID: "c1", Timestamp: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), UserMessage: "Rent?", BotResponse: "1200"},
			{UserMessage: "Deposit?", Pending: true},
		}

		_, out, err := server.handleHistory(ctx, nil, HistoryInput{DocumentID: "doc-1"})

		require.NoError(t, err)
		assert.Equal(t, "Lease agreement", out.Title)
		assert.Equal(t, 1, out.Count)
		assert.Equal(t, EntryOutput{
			ID:        "c1",
			Timestamp: "2024-03-02T10:00:00Z",
			Message:   "Rent?",
			Answer:    "1200",
		}, out.Entries[0])
	})

	t.Run("empty history", func(t *testing.T) {
		server, _ := newTestServer(t, lease)

		_, out, err := server.handleHistory(ctx, nil, HistoryInput{DocumentID: "doc-1"})

		require.NoError(t, err)
		assert.Equal(t, 0, out.Count)
		assert.NotNil(t, out.Entries)
	})

	t.Run("unknown document", func(t *testing.T) {
		server, _ := newTestServer(t)

		_, _, err := server.handleHistory(ctx, nil, HistoryInput{DocumentID: "nope"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
