package icons

import (
	"bytes"
	"compress/gzip"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/haneul-labs/toss-docs-mcp/pkg/models"
)

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(data)); err != nil {
		t.Fatalf("failed to compress: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	return buf.Bytes()
}

const samplePayload = `{
  "items": [
    {"name": "icon-trophy-mono", "type": "icon-*", "src": "https://static.toss.im/icons/svg/icon-trophy-mono.svg"},
    {"name": "icn-bank-toss", "type": "icn-*", "src": "https://static.toss.im/icons/png/4x/icn-bank-toss.png"},
    {"name": "u1F600", "type": "emoji/image", "src": "https://static.toss.im/2d-emojis/png/4x/u1F600.png"}
  ]
}`

func TestLoad_PackagedCatalog(t *testing.T) {
	catalog := Load()

	if catalog.Len() == 0 {
		t.Fatal("packaged catalog should not be empty")
	}

	results := catalog.Search("trophy", "", 10)
	if len(results) == 0 {
		t.Error("expected the packaged catalog to contain a trophy icon")
	}
}

func TestLoadFrom_GzipPreferred(t *testing.T) {
	fsys := fstest.MapFS{
		"data/toss_icons.json.gz": {Data: gzipBytes(t, samplePayload)},
		"data/toss_icons.json":    {Data: []byte(`{"items": []}`)},
	}

	catalog := LoadFrom(fsys)

	if catalog.Len() != 3 {
		t.Errorf("Len = %d, want 3 (the compressed file must win)", catalog.Len())
	}
}

func TestLoadFrom_PlainFallback(t *testing.T) {
	fsys := fstest.MapFS{
		"data/toss_icons.json": {Data: []byte(samplePayload)},
	}

	if got := LoadFrom(fsys).Len(); got != 3 {
		t.Errorf("Len = %d, want 3", got)
	}
}

func TestLoadFrom_CorruptGzipFallsBackToPlain(t *testing.T) {
	fsys := fstest.MapFS{
		"data/toss_icons.json.gz": {Data: []byte("not gzip at all")},
		"data/toss_icons.json":    {Data: []byte(samplePayload)},
	}

	if got := LoadFrom(fsys).Len(); got != 3 {
		t.Errorf("Len = %d, want 3 after falling back to the plain file", got)
	}
}

func TestLoadFrom_DegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no catalog files", fstest.MapFS{}},
		{"invalid json", fstest.MapFS{
			"data/toss_icons.json": {Data: []byte("{broken")},
		}},
		{"items not a list", fstest.MapFS{
			"data/toss_icons.json": {Data: []byte(`{"items": 5}`)},
		}},
		{"items missing", fstest.MapFS{
			"data/toss_icons.json": {Data: []byte(`{"other": []}`)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := LoadFrom(tt.fsys)
			if catalog.Len() != 0 {
				t.Errorf("Len = %d, want 0", catalog.Len())
			}
			if got := catalog.Search("anything", "", 10); len(got) != 0 {
				t.Errorf("search on an empty catalog returned %d results", len(got))
			}
		})
	}
}

func TestCatalog_SearchTypeFilter(t *testing.T) {
	catalog := LoadFrom(fstest.MapFS{
		"data/toss_icons.json": {Data: []byte(samplePayload)},
	})

	results := catalog.Search("toss", "icn-*", 10)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Name != "icn-bank-toss" {
		t.Errorf("Name = %q, want icn-bank-toss", results[0].Name)
	}

	// Filter matching is case-insensitive equality.
	if got := catalog.Search("toss", "ICN-*", 10); len(got) != 1 {
		t.Errorf("uppercase filter returned %d results, want 1", len(got))
	}
	if got := catalog.Search("toss", "icn", 10); len(got) != 0 {
		t.Errorf("partial type %q must not match, got %d results", "icn", len(got))
	}
}

func TestCatalog_SearchNameTieBreak(t *testing.T) {
	payload := `{
  "items": [
    {"name": "icon-zebra-mono", "type": "icon-*", "src": "https://static.toss.im/icons/svg/icon-zebra-mono.svg"},
    {"name": "icon-apple-mono", "type": "icon-*", "src": "https://static.toss.im/icons/svg/icon-apple-mono.svg"},
    {"name": "icon-mango-mono", "type": "icon-*", "src": "https://static.toss.im/icons/svg/icon-mango-mono.svg"}
  ]
}`
	catalog := LoadFrom(fstest.MapFS{"data/toss_icons.json": {Data: []byte(payload)}})

	results := catalog.Search("mono", "", 10)

	want := []string{"icon-apple-mono", "icon-mango-mono", "icon-zebra-mono"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, w := range want {
		if results[i].Name != w {
			t.Errorf("result %d = %q, want %q (equal counts sort by name)", i, results[i].Name, w)
		}
	}
}

func TestCatalog_SearchEmptyQuery(t *testing.T) {
	catalog := LoadFrom(fstest.MapFS{"data/toss_icons.json": {Data: []byte(samplePayload)}})

	if got := catalog.Search("", "", 10); len(got) != 0 {
		t.Errorf("empty query returned %d results, want 0", len(got))
	}
}

func TestUsageFamily(t *testing.T) {
	tests := []struct {
		name   string
		item   models.IconItem
		family string
	}{
		{"icon prefix", models.IconItem{Name: "icon-check-mono"}, FamilyIcon},
		{"icn prefix", models.IconItem{Name: "icn-bank-toss"}, FamilyIcn},
		{"emoji prefix", models.IconItem{Name: "u1F600"}, FamilyEmoji},
		{"emoji prefix lowercase", models.IconItem{Name: "u1f680"}, FamilyEmoji},
		{"type fallback icon", models.IconItem{Name: "check", Type: "icon-*"}, FamilyIcon},
		{"type fallback icn", models.IconItem{Name: "bank", Type: "icn-*"}, FamilyIcn},
		{"type fallback emoji", models.IconItem{Name: "party", Type: "emoji/image"}, FamilyEmoji},
		{"src fallback emoji", models.IconItem{Name: "party", Src: "https://static.toss.im/2d-emojis/png/4x/party.png"}, FamilyEmoji},
		{"nothing matches", models.IconItem{Name: "mystery", Type: "other", Src: "file.png"}, FamilyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UsageFamily(tt.item); got != tt.family {
				t.Errorf("UsageFamily = %q, want %q", got, tt.family)
			}
		})
	}
}

func TestUsageHint(t *testing.T) {
	mono := UsageHint(models.IconItem{Name: "icon-search-mono", Type: "icon-*"})
	if !strings.Contains(mono, "color") {
		t.Errorf("mono hint should mention color, got %q", mono)
	}

	plain := UsageHint(models.IconItem{Name: "icon-qr-code", Type: "icon-*"})
	if strings.Contains(plain, "color") {
		t.Errorf("non-mono hint should not mention color, got %q", plain)
	}

	emoji := UsageHint(models.IconItem{Name: "u1F600", Type: "emoji/image"})
	if !strings.Contains(emoji, "Asset.Image") {
		t.Errorf("emoji hint should recommend Asset.Image, got %q", emoji)
	}

	unknownWithURL := UsageHint(models.IconItem{Name: "mystery", Type: "other", Src: "https://static.toss.im/x.png"})
	if !strings.Contains(unknownWithURL, "URL") {
		t.Errorf("unknown family with an http src should suggest URL rendering, got %q", unknownWithURL)
	}
}

func TestUsageGuide_PackagedContent(t *testing.T) {
	guide := UsageGuide()

	if guide == "" {
		t.Fatal("usage guide should be packaged with the binary")
	}
	for _, want := range []string{"icon-*", "icn-*", "u1F", "IconButton", "Asset.Image"} {
		if !strings.Contains(guide, want) {
			t.Errorf("usage guide missing %q", want)
		}
	}
}
