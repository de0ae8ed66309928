package cmd

import (
	"fmt"

	"github.com/haneul-labs/toss-docs-mcp/internal/cache"
	"github.com/haneul-labs/toss-docs-mcp/internal/collector"
	"github.com/haneul-labs/toss-docs-mcp/internal/config"
	"github.com/haneul-labs/toss-docs-mcp/internal/docs"
	"github.com/haneul-labs/toss-docs-mcp/internal/events"
	"github.com/haneul-labs/toss-docs-mcp/internal/icons"
)

// newService wires the cache store, collector and icon catalog into a
// documentation service. ev, when non-nil, receives per-source collection
// progress.
func newService(c config.Config, ev chan<- events.SourceCollected) (*docs.Service, error) {
	store, err := cache.New(c.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	col := collector.New(c.Collector, c.Sources)
	col.Events = ev

	return docs.New(c, store, col, icons.Load()), nil
}
