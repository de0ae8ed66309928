package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haneul-labs/toss-docs-mcp/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server for documentation search.

The server communicates via stdio and provides three tools:
  - search_docs:   Search cached documentation fragments by keywords
  - search_icons:  Search the packaged TDS icon catalog
  - sync_sources:  Refresh the documentation cache from the remote sources

On startup the persisted fragment cache is loaded when present; the network
is only touched when no cache exists.

Example:
  toss-docs-mcp serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	service, err := newService(cfg, nil)
	if err != nil {
		return err
	}

	// Serving continues without fragments; the tools report the unloaded
	// state and sync_sources recovers it.
	if err := service.EnsureLoaded(ctx); err != nil {
		slog.Warn("initial load failed, serving without fragments", "error", err)
	}

	server := mcp.NewServer(mcp.Config{
		Name:    cfg.MCP.Name,
		Version: cfg.MCP.Version,
	}, service)

	fmt.Fprintf(cmd.ErrOrStderr(), "Starting MCP server (%d fragments loaded)...\n", service.Fragments())

	return server.ServeStdio()
}
