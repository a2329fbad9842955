package mcp

import (
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Workspace lists documents and runs chat sessions.
	Workspace driving.Workspace
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspace
	}
	return nil
}
