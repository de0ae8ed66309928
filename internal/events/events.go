package events

import "time"

// SourceCollected is sent when the collector finishes one configured source,
// successfully or not. Consumers use it for progress reporting; the
// collected documents themselves travel through the Collect return value.
type SourceCollected struct {
	Source   string        // source key (e.g. "apps_in_toss")
	Name     string        // display name
	Pages    int           // documents collected for this source
	Duration time.Duration // time spent fetching this source
	Err      error         // nil on success; the source is omitted from results on failure
}
