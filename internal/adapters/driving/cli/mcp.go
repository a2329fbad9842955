package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can list your
documents and ask questions about them.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve over HTTP instead.

Tools:
  list_documents       List uploaded documents
  chat_with_document   Ask a question about a document
  chat_history         Read the conversation held about a document

Examples:
  # Stdio mode (default)
  docchat mcp serve

  # HTTP mode
  docchat mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "docchat": {
        "command": "/path/to/docchat",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{Workspace: workspace})
	if err != nil {
		return err
	}
	restoreSession(cmd.Context())

	if port > 0 {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
