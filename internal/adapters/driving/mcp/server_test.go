package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/services/servicestest"
)

func newTestServer(t *testing.T, docs ...domain.Document) (*Server, *servicestest.Workspace) {
	t.Helper()
	ws := servicestest.NewWorkspace(docs...)
	server, err := NewServer(&Ports{Workspace: ws})
	require.NoError(t, err)
	return server, ws
}

func TestNewServer(t *testing.T) {
	t.Run("missing workspace returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingWorkspace)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, _ := newTestServer(t)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingWorkspace)
	assert.NoError(t, (&Ports{Workspace: servicestest.NewWorkspace()}).Validate())
}

func TestServer_OpenKnownDocumentSkipsRefresh(t *testing.T) {
	server, ws := newTestServer(t, domain.Document{ID: "doc-1", Title: "Lease"})

	snap, err := server.open(context.Background(), "doc-1")

	require.NoError(t, err)
	assert.Equal(t, domain.ChatReady, snap.State)
	assert.Equal(t, 0, ws.Refreshes())
}

func TestServer_OpenMissingDocument(t *testing.T) {
	server, ws := newTestServer(t)

	_, err := server.open(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, ws.Refreshes())
}
