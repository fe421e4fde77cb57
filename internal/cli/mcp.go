package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio transport)",
	Long: `Start the MCP (Model Context Protocol) server using stdio transport.

This lets AI assistants request recommendations, explain scores and record
behavior for your users.

Add to your assistant's MCP config:

{
  "mcpServers": {
    "jobmatch": {
      "command": "/path/to/jobmatch",
      "args": ["mcp"]
    }
  }
}

Diagnostics go to stderr; stdout carries only protocol messages.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// Handle interrupt
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// Check if MCP is enabled
	if !a.cfg.MCP.Enabled {
		return fmt.Errorf("MCP server is disabled in config")
	}

	server := mcp.New(a.engine, version, a.logger)
	a.logger.Info("mcp server started", "transport", a.cfg.MCP.Transport)

	return server.Start(ctx)
}
