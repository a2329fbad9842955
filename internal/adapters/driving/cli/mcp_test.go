package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestMCPServe_RequiresWorkspace(t *testing.T) {
	setupTestServices(t)
	SetServices(Services{})

	_, _, err := executeCommand(t, "", "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingWorkspace)
}

func TestMCPServe_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")

	if assert.NotNil(t, flag) {
		assert.Equal(t, "p", flag.Shorthand)
		assert.Equal(t, "0", flag.DefValue)
	}
}

func TestRestoreSession(t *testing.T) {
	env := setupTestServices(t)

	restoreSession(context.Background())
	assert.Equal(t, 1, env.auth.restores)

	env.auth.restoreErr = errors.New("refresh token revoked")
	restoreSession(context.Background())
	assert.Equal(t, 2, env.auth.restores)
}

func TestRestoreSession_WithoutAuth(t *testing.T) {
	setupTestServices(t)
	SetServices(Services{})

	assert.NotPanics(t, func() { restoreSession(context.Background()) })
}

func TestOneShotCommandsDoNotRestore(t *testing.T) {
	env := setupTestServices(t, domain.Document{ID: "doc-1", Title: "Lease agreement"})

	for _, args := range [][]string{{"version"}, {"settings", "show"}, {"document", "list"}} {
		_, _, err := executeCommand(t, "", args...)
		require.NoError(t, err, args)
	}

	assert.Zero(t, env.auth.restores)
}
