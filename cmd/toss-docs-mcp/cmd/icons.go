package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haneul-labs/toss-docs-mcp/internal/icons"
	"github.com/haneul-labs/toss-docs-mcp/pkg/models"
)

var (
	iconsType   string
	iconsLimit  int
	iconsFormat string
	iconsGuide  bool
)

var iconsCmd = &cobra.Command{
	Use:   "icons [query]",
	Short: "Search the packaged TDS icon catalog",
	Long: `Search the icon catalog packaged with the binary. No network access
is needed.

Examples:
  # Find icons by keyword
  toss-docs-mcp icons "arrow right"

  # Restrict to one catalog type
  toss-docs-mcp icons bank --type icn-*

  # Print the usage guide
  toss-docs-mcp icons --guide`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIcons,
}

func init() {
	rootCmd.AddCommand(iconsCmd)

	iconsCmd.Flags().StringVar(&iconsType, "type", "", "Type filter (icon-*, icn-*, emoji/image)")
	iconsCmd.Flags().IntVar(&iconsLimit, "limit", 0, "Maximum number of results (default: 10)")
	iconsCmd.Flags().StringVar(&iconsFormat, "format", "text", "Output format: text or json")
	iconsCmd.Flags().BoolVar(&iconsGuide, "guide", false, "Print the icon usage guide and exit")
}

func runIcons(cmd *cobra.Command, args []string) error {
	if iconsGuide {
		fmt.Println(icons.UsageGuide())
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("a query is required unless --guide is given")
	}
	query := args[0]

	service, err := newService(GetConfig(), nil)
	if err != nil {
		return err
	}

	results, err := service.SearchIcons(query, iconsType, iconsLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No icons found.")
		return nil
	}

	if iconsFormat == "json" {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Found %d icons:\n\n", len(results))
	for i, r := range results {
		item := models.IconItem{Name: r.Name, Type: r.Type, Src: r.Src}
		fmt.Printf("─── Icon %d ───\n", i+1)
		fmt.Printf("Name:  %s\n", r.Name)
		fmt.Printf("Type:  %s\n", r.Type)
		fmt.Printf("Src:   %s\n", r.Src)
		fmt.Printf("Usage: %s\n\n", icons.UsageHint(item))
	}

	return nil
}
