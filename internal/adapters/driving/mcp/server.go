package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for DocChat.
type Server struct {
	ports  *Ports
	server *mcp.Server

	// mu serialises handlers. The workspace holds a single selection, so
	// opening one document must not race a send to another.
	mu sync.Mutex
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "docchat",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	logger.Debug("mcp: listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// documents returns the current collection, refreshing it first.
func (s *Server) documents(ctx context.Context) ([]domain.Document, error) {
	if err := s.ports.Workspace.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.ports.Workspace.Documents(), nil
}

// open selects id and loads its history. The collection is refreshed
// when id is not known yet.
func (s *Server) open(ctx context.Context, id string) (domain.ChatSnapshot, error) {
	ws := s.ports.Workspace
	if domain.FindDocument(ws.Documents(), id) == nil {
		if _, err := s.documents(ctx); err != nil {
			return domain.ChatSnapshot{}, err
		}
	}

	doc, err := ws.Open(ctx, id)
	if err != nil {
		return domain.ChatSnapshot{}, err
	}
	if doc == nil {
		return domain.ChatSnapshot{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return ws.Chat(), nil
}
