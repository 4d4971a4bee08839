package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/adapters/mcp"
	"github.com/xvierd/lifegame-cli/internal/adapters/notification"
	"github.com/xvierd/lifegame-cli/internal/services"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server exposes tools to read progress, complete tasks, redeem rewards and
add custom tasks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol, so status goes to stderr.
		fmt.Fprintln(os.Stderr, "🚀 Starting MCP server...")
		fmt.Fprintln(os.Stderr, "   The server will communicate via stdio")
		fmt.Fprintln(os.Stderr, "   Press Ctrl+C to stop")

		ctx, cancel := setupSignalHandler(cmd.Context())
		defer cancel()

		app.progression.SetNotifier(notification.Fanout{app.desktop})

		// Create and start the MCP server
		server := mcp.NewServer(services.NewStateService(app.progression), Version)
		defer func() { _ = server.Stop() }()
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}
