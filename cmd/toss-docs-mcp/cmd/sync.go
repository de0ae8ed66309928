package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haneul-labs/toss-docs-mcp/internal/events"
)

var syncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the local documentation cache",
	Long: `Collect the configured documentation sources, re-chunk them and
replace the local cache. Without --force the cache is kept when no source
content changed.

Examples:
  # Refresh only when a source changed
  toss-docs-mcp sync

  # Unconditional re-collect and re-chunk
  toss-docs-mcp sync --force`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncForce, "force", false, "re-collect and re-chunk even when the cache is fresh")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	// Progress consumer: one line per collected source.
	progress := make(chan events.SourceCollected)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range progress {
			if ev.Err != nil {
				fmt.Printf("  %s (%s): failed after %v: %v\n", ev.Name, ev.Source, ev.Duration.Round(time.Millisecond), ev.Err)
				continue
			}
			fmt.Printf("  %s (%s): %d pages in %v\n", ev.Name, ev.Source, ev.Pages, ev.Duration.Round(time.Millisecond))
		}
	}()

	service, err := newService(cfg, progress)
	if err != nil {
		close(progress)
		<-done
		return err
	}

	fmt.Println("Syncing sources...")
	start := time.Now()

	result, err := service.Sync(ctx, syncForce)

	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	state := "cache was fresh, fragments reused"
	if result.Refreshed {
		state = "re-collected and re-chunked"
	}
	fmt.Printf("\nSync complete: %d fragments (%s) in %v\n", result.Fragments, state, time.Since(start).Round(time.Millisecond))

	return nil
}
