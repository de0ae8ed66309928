package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFragment_JSONRoundTrip(t *testing.T) {
	frag := Fragment{
		Source:  "tds_mobile",
		URL:     "https://tossmini-docs.toss.im/tds-mobile/llms-full.txt",
		Header:  "Button",
		Content: "## Button\n\nPrimary action component.",
	}

	data, err := json.Marshal(frag)
	if err != nil {
		t.Fatalf("failed to marshal Fragment: %v", err)
	}

	var decoded Fragment
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal Fragment: %v", err)
	}

	if decoded != frag {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, frag)
	}
}

func TestFragment_JSONFieldNames(t *testing.T) {
	// The field names are the persisted cache format; a cache written by an
	// older build must keep loading.
	frag := Fragment{
		Source:  "apps_in_toss",
		URL:     "https://developers-apps-in-toss.toss.im/overview",
		Header:  "Overview",
		Content: "# Overview\n\ncontent",
	}

	data, err := json.Marshal(frag)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	jsonStr := string(data)
	for _, field := range []string{`"source"`, `"url"`, `"header"`, `"content"`} {
		if !strings.Contains(jsonStr, field) {
			t.Errorf("JSON should contain field %s, got: %s", field, jsonStr)
		}
	}
}

func TestSearchResult_JSONFieldNames(t *testing.T) {
	res := SearchResult{
		Source:     "tds_react_native",
		URL:        "https://tossmini-docs.toss.im/tds-react-native/llms-full.txt",
		Header:     "Install",
		Content:    "## Install",
		MatchCount: 2,
		MatchRatio: 1.0,
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	jsonStr := string(data)
	for _, field := range []string{`"match_count"`, `"match_ratio"`} {
		if !strings.Contains(jsonStr, field) {
			t.Errorf("JSON should contain field %s, got: %s", field, jsonStr)
		}
	}
}

func TestIconItem_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		item IconItem
	}{
		{"mono icon", IconItem{Name: "icon-search-mono", Type: "icon-*", Src: "https://static.toss.im/icons/svg/icon-search-mono.svg"}},
		{"brand icon", IconItem{Name: "icn-bank-toss", Type: "icn-*", Src: "https://static.toss.im/icons/png/4x/icn-bank-toss.png"}},
		{"emoji", IconItem{Name: "u1F600", Type: "emoji/image", Src: "https://static.toss.im/2d-emojis/png/4x/u1F600.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.item)
			if err != nil {
				t.Fatalf("failed to marshal: %v", err)
			}

			var decoded IconItem
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}

			if decoded != tt.item {
				t.Errorf("round trip mismatch: got %+v, want %+v", decoded, tt.item)
			}
		})
	}
}

func TestIconItem_IgnoresUnknownFields(t *testing.T) {
	// Catalog files may carry extra metadata per item.
	raw := `{"name":"icon-trophy-mono","type":"icon-*","src":"https://static.toss.im/icons/svg/icon-trophy-mono.svg","tags":["prize"]}`

	var item IconItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if item.Name != "icon-trophy-mono" {
		t.Errorf("Name = %q, want %q", item.Name, "icon-trophy-mono")
	}
}
