package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/haneul-labs/toss-docs-mcp/internal/docs"
	"github.com/haneul-labs/toss-docs-mcp/internal/icons"
	"github.com/haneul-labs/toss-docs-mcp/pkg/models"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
}

// Server exposes the documentation service over MCP stdio.
type Server struct {
	mcpServer *server.MCPServer
	service   *docs.Service
}

// NewServer creates an MCP server with the documentation and icon search
// tools registered.
func NewServer(config Config, service *docs.Service) *Server {
	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
		server.WithInstructions("Search tools for Toss developer documentation (앱인토스, TDS React Native, TDS Mobile) and the TDS icon catalog."),
	)

	s := &Server{
		mcpServer: mcpServer,
		service:   service,
	}

	searchTool := mcp.NewTool("search_docs",
		mcp.WithDescription("Search Toss developer documentation by whitespace-separated keywords. Returns ranked markdown fragments."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search keywords, separated by whitespace"),
		),
		mcp.WithString("source",
			mcp.Description("Optional source filter: apps_in_toss, tds_react_native or tds_mobile"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10, max: 50)"),
		),
	)
	mcpServer.AddTool(searchTool, s.searchDocsHandler)

	iconsTool := mcp.NewTool("search_icons",
		mcp.WithDescription("Search the TDS icon catalog by keywords. Returns matching icons with usage hints."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search keywords, separated by whitespace"),
		),
		mcp.WithString("type",
			mcp.Description("Optional type filter: icon-*, icn-* or emoji/image"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10, max: 50)"),
		),
	)
	mcpServer.AddTool(iconsTool, s.searchIconsHandler)

	syncTool := mcp.NewTool("sync_sources",
		mcp.WithDescription("Synchronize the documentation index with the remote sources."),
		mcp.WithBoolean("force",
			mcp.Description("Re-collect and re-chunk even when the cached content is fresh"),
		),
	)
	mcpServer.AddTool(syncTool, s.syncSourcesHandler)

	return s
}

// searchDocsHandler handles the search_docs tool call.
func (s *Server) searchDocsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	source := req.GetString("source", "")
	limit := req.GetInt("limit", 0)

	if !s.service.Loaded() {
		return mcp.NewToolResultText("Documents are not loaded yet. Call sync_sources first."), nil
	}

	results, err := s.service.Search(query, source, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No results for %q.", query)), nil
	}

	return mcp.NewToolResultText(FormatSearchResults(results)), nil
}

// searchIconsHandler handles the search_icons tool call.
func (s *Server) searchIconsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	typeFilter := req.GetString("type", "")
	limit := req.GetInt("limit", 0)

	results, err := s.service.SearchIcons(query, typeFilter, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No icons found for %q.", query)), nil
	}

	return mcp.NewToolResultText(FormatIconResults(results)), nil
}

// syncSourcesHandler handles the sync_sources tool call.
func (s *Server) syncSourcesHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	force := req.GetBool("force", false)

	result, err := s.service.Sync(ctx, force)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sync failed: %v", err)), nil
	}

	state := "reused cached fragments"
	if result.Refreshed {
		state = "re-collected and re-chunked"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Sync complete: %d fragments (%s).", result.Fragments, state)), nil
}

// FormatSearchResults renders documentation search results as markdown, one
// block per result separated by horizontal rules.
func FormatSearchResults(results []models.SearchResult) string {
	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf(
			"### Result %d [%s]\n**Header**: %s\n**URL**: %s\n**Matched**: %d keywords (%.0f%%)\n\n%s\n",
			i+1, r.Source, r.Header, r.URL, r.MatchCount, r.MatchRatio*100, r.Content,
		))
	}
	return strings.Join(parts, "\n---\n")
}

// FormatIconResults renders icon search results with per-icon usage hints,
// followed by the catalog usage guide.
func FormatIconResults(results []models.IconResult) string {
	var b strings.Builder
	for i, r := range results {
		item := models.IconItem{Name: r.Name, Type: r.Type, Src: r.Src}
		fmt.Fprintf(&b, "### %d. %s\n**Type**: %s\n**Src**: %s\n**Usage**: %s\n\n",
			i+1, r.Name, r.Type, r.Src, icons.UsageHint(item))
	}
	if guide := icons.UsageGuide(); guide != "" {
		b.WriteString("---\n\n")
		b.WriteString(guide)
	}
	return strings.TrimSpace(b.String())
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
