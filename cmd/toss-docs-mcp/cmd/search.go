package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	searchSource string
	searchLimit  int
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the cached documentation",
	Long: `Search the cached documentation fragments by keywords.

Examples:
  # Basic search
  toss-docs-mcp search "button color"

  # Restrict to one source
  toss-docs-mcp search "결제 연동" --source apps_in_toss

  # JSON output for scripting
  toss-docs-mcp search "install" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchSource, "source", "", "Source filter (apps_in_toss, tds_react_native, tds_mobile)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results (default: 10)")
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := args[0]
	cfg := GetConfig()

	service, err := newService(cfg, nil)
	if err != nil {
		return err
	}

	if err := service.EnsureLoaded(ctx); err != nil {
		return fmt.Errorf("failed to load documentation: %w", err)
	}

	results, err := service.Search(query, searchSource, searchLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if searchFormat == "json" {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(results))
	for i, r := range results {
		fmt.Printf("─── Result %d ───\n", i+1)
		fmt.Printf("Source:  %s\n", r.Source)
		fmt.Printf("Header:  %s\n", r.Header)
		fmt.Printf("URL:     %s\n", r.URL)
		fmt.Printf("Matched: %d keywords (%.0f%%)\n", r.MatchCount, r.MatchRatio*100)

		// Truncate content for display
		content := r.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		fmt.Printf("Content:\n%s\n\n", content)
	}

	return nil
}
