package icons

import (
	"bytes"
	"compress/gzip"
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/haneul-labs/toss-docs-mcp/internal/searcher"
	"github.com/haneul-labs/toss-docs-mcp/pkg/models"
)

//go:embed data
var dataFS embed.FS

// DefaultMaxResults bounds an icon search result set.
const DefaultMaxResults = 10

// SupportedTypes lists the catalog's type values, in display order.
var SupportedTypes = []string{"icon-*", "icn-*", "emoji/image"}

// Usage families returned by UsageFamily.
const (
	FamilyIcon    = "icon-*"
	FamilyIcn     = "icn-*"
	FamilyEmoji   = "u1f"
	FamilyUnknown = "unknown"
)

var usageGuide = func() string {
	data, err := fs.ReadFile(dataFS, "data/usage_guide.md")
	if err != nil {
		return ""
	}
	return string(data)
}()

// UsageGuide returns the packaged markdown guide describing how each icon
// family is consumed from TDS React Native.
func UsageGuide() string {
	return usageGuide
}

// Catalog holds the packaged icon inventory. A missing or malformed catalog
// degrades to an empty inventory: searches return nothing, nothing fails.
type Catalog struct {
	items []models.IconItem
}

// Load reads the catalog packaged with the binary.
func Load() *Catalog {
	return LoadFrom(dataFS)
}

// LoadFrom reads the catalog from fsys, preferring the gzip-compressed file:
// data/toss_icons.json.gz, then data/toss_icons.json.
func LoadFrom(fsys fs.FS) *Catalog {
	raw := loadPayloadText(fsys)
	if raw == nil {
		return &Catalog{}
	}

	var payload struct {
		Items []models.IconItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		slog.Error("failed to parse icon catalog", "error", err)
		return &Catalog{}
	}
	if payload.Items == nil {
		slog.Error("icon catalog malformed: missing items list")
		return &Catalog{}
	}

	slog.Debug("icon catalog loaded", "items", len(payload.Items))
	return &Catalog{items: payload.Items}
}

func loadPayloadText(fsys fs.FS) []byte {
	if compressed, err := fs.ReadFile(fsys, "data/toss_icons.json.gz"); err == nil {
		raw, err := decompress(compressed)
		if err == nil {
			return raw
		}
		slog.Error("failed to decompress icon catalog", "error", err)
	}

	if raw, err := fs.ReadFile(fsys, "data/toss_icons.json"); err == nil {
		return raw
	}

	slog.Error("icon catalog file not found: data/toss_icons.json(.gz)")
	return nil
}

func decompress(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return io.ReadAll(gz)
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Search ranks catalog entries against a keyword query. typeFilter, when
// non-empty, keeps only entries whose type matches case-insensitively. The
// searchable text is name, type and src combined; equal match counts are
// ordered by ascending name within each tier.
func (c *Catalog) Search(query, typeFilter string, maxResults int) []models.IconResult {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	candidates := c.items
	if typeFilter != "" {
		normalized := strings.ToLower(typeFilter)
		candidates = make([]models.IconItem, 0, len(c.items))
		for _, item := range c.items {
			if strings.ToLower(item.Type) == normalized {
				candidates = append(candidates, item)
			}
		}
	}

	matches := searcher.Rank(candidates, query, func(item models.IconItem) string {
		return item.Name + " " + item.Type + " " + item.Src
	}, func(a, b models.IconItem) bool {
		return a.Name < b.Name
	}, maxResults)

	results := make([]models.IconResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, models.IconResult{
			Name:       m.Item.Name,
			Type:       m.Item.Type,
			Src:        m.Item.Src,
			MatchCount: m.MatchCount,
			MatchRatio: m.MatchRatio,
		})
	}
	return results
}

// UsageFamily classifies an icon into its recommended usage family. The name
// prefix wins; type and src only decide when the name is inconclusive.
func UsageFamily(item models.IconItem) string {
	name := strings.ToLower(item.Name)
	typ := strings.ToLower(item.Type)
	src := strings.ToLower(item.Src)

	switch {
	case strings.HasPrefix(name, "icon-"):
		return FamilyIcon
	case strings.HasPrefix(name, "icn-"):
		return FamilyIcn
	case strings.HasPrefix(name, "u1f"):
		return FamilyEmoji
	}

	switch {
	case typ == FamilyIcon:
		return FamilyIcon
	case typ == FamilyIcn:
		return FamilyIcn
	case typ == "emoji/image" || strings.Contains(src, "2d-emojis"):
		return FamilyEmoji
	}
	return FamilyUnknown
}

// UsageHint returns a one-line usage recommendation for a single icon.
func UsageHint(item models.IconItem) string {
	switch UsageFamily(item) {
	case FamilyIcon:
		if strings.Contains(strings.ToLower(item.Name), "-mono") {
			return "use name-based `Icon`/`IconButton` and set `color` (`-mono`)"
		}
		return "use name-based `Icon`/`IconButton` (`icon-*`)"
	case FamilyIcn:
		return "use name-based `Icon`/`Asset.Icon` (`icn-*`, keep the original colors)"
	case FamilyEmoji:
		return "use URL-based `Asset.Image`/`Asset.ContentImage` (`source={{ uri }}`)"
	}
	if strings.HasPrefix(item.Src, "http") {
		return "family unclear; prefer URL-based rendering"
	}
	return "family unclear; check the catalog `src` directly"
}
