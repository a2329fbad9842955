// Package mcp provides an MCP (Model Context Protocol) server adapter for DocChat.
// It lets AI assistants list the user's documents and chat with them.
package mcp

import "errors"

// ErrMissingWorkspace is returned when the workspace is not provided.
var ErrMissingWorkspace = errors.New("mcp: workspace is required")

// ErrNotSent is returned when the backend accepted no message, which
// happens when the chat session is not ready.
var ErrNotSent = errors.New("mcp: message was not sent")
