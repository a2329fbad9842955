package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes one document.
type DocumentOutput struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	UploadedAt string `json:"uploaded_at,omitempty"`
	FileURL    string `json:"file_url,omitempty"`
}

// ChatInput is the input schema for the chat_with_document tool.
type ChatInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document to ask about"`
	Message    string `json:"message" jsonschema:"the question to ask"`
}

// ChatOutput is the output schema for the chat_with_document tool.
type ChatOutput struct {
	DocumentID string `json:"document_id"`
	Message    string `json:"message"`
	Answer     string `json:"answer"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// HistoryInput is the input schema for the chat_history tool.
type HistoryInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document"`
}

// HistoryOutput is the output schema for the chat_history tool.
type HistoryOutput struct {
	DocumentID string        `json:"document_id"`
	Title      string        `json:"title"`
	Entries    []EntryOutput `json:"entries"`
	Count      int           `json:"count"`
}

// EntryOutput is one exchange of a conversation.
type EntryOutput struct {
	ID        string `json:"id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Message   string `json:"message"`
	Answer    string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents uploaded by the signed-in user",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat_with_document",
		Description: "Ask a question about a document and get the answer",
	}, s.handleChat)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat_history",
		Description: "Return the conversation held about a document",
	}, s.handleHistory)
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.documents(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}
	return nil, ListDocumentsOutput{Documents: documentOutputs(docs), Count: len(docs)}, nil
}

func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	fields := map[string]string{}
	if strings.TrimSpace(input.DocumentID) == "" {
		fields["document_id"] = "required"
	}
	if strings.TrimSpace(input.Message) == "" {
		fields["message"] = "required"
	}
	if len(fields) > 0 {
		return nil, ChatOutput{}, domain.NewValidationError("Please provide both a document and a message", fields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.open(ctx, input.DocumentID)
	if err != nil {
		return nil, ChatOutput{}, err
	}
	if snap.State == domain.ChatError {
		return nil, ChatOutput{}, snap.Err
	}

	entry, err := s.ports.Workspace.Send(ctx, input.Message)
	if err != nil {
		return nil, ChatOutput{}, err
	}
	if entry == nil {
		return nil, ChatOutput{}, ErrNotSent
	}

	return nil, ChatOutput{
		DocumentID: input.DocumentID,
		Message:    entry.UserMessage,
		Answer:     entry.BotResponse,
		Timestamp:  formatTime(entry.Timestamp),
	}, nil
}

func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.history(ctx, input.DocumentID)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	return nil, out, nil
}

// history opens id and converts its transcript. Caller must hold s.mu.
func (s *Server) history(ctx context.Context, id string) (HistoryOutput, error) {
	snap, err := s.open(ctx, id)
	if err != nil {
		return HistoryOutput{}, err
	}
	if snap.State == domain.ChatError {
		return HistoryOutput{}, snap.Err
	}

	out := HistoryOutput{
		DocumentID: id,
		Entries:    make([]EntryOutput, 0, len(snap.Entries)),
	}
	if snap.Document != nil {
		out.Title = snap.Document.Title
	}
	for i := range snap.Entries {
		e := &snap.Entries[i]
		if e.Pending {
			continue
		}
		out.Entries = append(out.Entries, EntryOutput{
			ID:        e.ID,
			Timestamp: formatTime(e.Timestamp),
			Message:   e.UserMessage,
			Answer:    e.BotResponse,
		})
	}
	out.Count = len(out.Entries)
	return out, nil
}

func documentOutputs(docs []domain.Document) []DocumentOutput {
	out := make([]DocumentOutput, len(docs))
	for i := range docs {
		out[i] = DocumentOutput{
			ID:         docs[i].ID,
			Title:      docs[i].Title,
			UploadedAt: formatTime(docs[i].UploadedAt),
			FileURL:    docs[i].FileURL,
		}
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
