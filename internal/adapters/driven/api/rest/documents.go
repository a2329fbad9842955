package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// ListDocuments returns all documents owned by the identity.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var resp listDocumentsResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/documents/list"}, &resp); err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		docs = append(docs, d.toDomain())
	}
	return docs, nil
}

// UploadDocument sends the file and title as one multipart request.
func (c *Client) UploadDocument(ctx context.Context, req domain.UploadRequest) (string, error) {
	if req.File == nil {
		return "", fmt.Errorf("upload: file is required")
	}
	r, err := multipartRequest("/documents/upload", *req.File, map[string]string{"title": req.Title})
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := c.do(ctx, r, &resp); err != nil {
		return "", err
	}
	if resp.DocumentID != "" {
		return resp.DocumentID, nil
	}
	return resp.ID, nil
}

// DeleteDocument deletes a document.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/documents/" + url.PathEscape(id)}, nil)
}

// Chat sends a message about a document and returns the answer.
func (c *Client) Chat(ctx context.Context, documentID, message string) (string, error) {
	r, err := jsonRequest(http.MethodPost, "/documents/chat/"+url.PathEscape(documentID), chatRequest{Message: message})
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := c.do(ctx, r, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// ChatHistory returns the stored exchanges for a document in server order.
func (c *Client) ChatHistory(ctx context.Context, documentID string) ([]domain.ChatEntry, error) {
	path := "/documents/chat/" + url.PathEscape(documentID) + "/history"
	var resp chatHistoryResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &resp); err != nil {
		return nil, err
	}

	entries := make([]domain.ChatEntry, 0, len(resp.ChatHistory))
	for _, e := range resp.ChatHistory {
		entries = append(entries, domain.ChatEntry{
			ID:          e.ID,
			Timestamp:   time.Time(e.Timestamp),
			UserMessage: e.UserMessage,
			BotResponse: e.BotResponse,
		})
	}
	return entries, nil
}
