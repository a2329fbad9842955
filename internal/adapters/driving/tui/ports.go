// Package tui provides an interactive terminal user interface for docchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Workspace drives documents, chat and uploads.
	Workspace driving.Workspace

	// Session reports the signed-in identity.
	Session driving.SessionStore

	// Settings supplies display settings. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspace
	}
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
