package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for DocChat resources.
const uriScheme = "docchat://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Documents uploaded by the signed-in user",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/history",
		Name:        "document-history",
		Description: "Conversation held about a specific document",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return jsonResource(req.Params.URI, documentOutputs(docs))
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractDocumentID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.history(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return jsonResource(req.Params.URI, out)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the id from docchat://documents/{documentId}/history.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/history"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
