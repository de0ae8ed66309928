package searcher

import (
	"sort"
	"strings"

	"github.com/haneul-labs/toss-docs-mcp/pkg/models"
)

// DefaultMaxResults bounds a result set when the caller does not override it.
const DefaultMaxResults = 10

// Match pairs a ranked item with its keyword match statistics.
type Match[T any] struct {
	Item       T
	MatchCount int
	MatchRatio float64
}

// Rank scores items against a whitespace-separated keyword query and returns
// them in two tiers: exact matches (every keyword found) before partial
// matches. Keywords match by lower-cased substring containment against
// searchable(item). Within each tier items are ordered by MatchCount
// descending; on equal counts tieBreak decides when non-nil, otherwise the
// input order is kept. An empty query returns nil. maxResults <= 0 means
// unlimited.
func Rank[T any](items []T, query string, searchable func(T) string, tieBreak func(a, b T) bool, maxResults int) []Match[T] {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 {
		return nil
	}

	var exact, partial []Match[T]
	for _, item := range items {
		text := strings.ToLower(searchable(item))

		count := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count == 0 {
			continue
		}

		m := Match[T]{
			Item:       item,
			MatchCount: count,
			MatchRatio: float64(count) / float64(len(keywords)),
		}
		if count == len(keywords) {
			exact = append(exact, m)
		} else {
			partial = append(partial, m)
		}
	}

	sortTier(exact, tieBreak)
	sortTier(partial, tieBreak)

	results := append(exact, partial...)
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func sortTier[T any](tier []Match[T], tieBreak func(a, b T) bool) {
	sort.SliceStable(tier, func(i, j int) bool {
		if tier[i].MatchCount != tier[j].MatchCount {
			return tier[i].MatchCount > tier[j].MatchCount
		}
		if tieBreak != nil {
			return tieBreak(tier[i].Item, tier[j].Item)
		}
		return false
	})
}

// Search ranks documentation fragments against a query. The searchable text
// is the header and content combined; source, when non-empty, restricts
// candidates to that source key. Equal match counts keep fragment order (the
// icon catalog search additionally breaks such ties by name; this one does
// not).
func Search(fragments []models.Fragment, query, source string, maxResults int) []models.SearchResult {
	candidates := fragments
	if source != "" {
		candidates = make([]models.Fragment, 0, len(fragments))
		for _, f := range fragments {
			if f.Source == source {
				candidates = append(candidates, f)
			}
		}
	}

	matches := Rank(candidates, query, func(f models.Fragment) string {
		return f.Header + " " + f.Content
	}, nil, maxResults)

	results := make([]models.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, models.SearchResult{
			Source:     m.Item.Source,
			URL:        m.Item.URL,
			Header:     m.Item.Header,
			Content:    m.Item.Content,
			MatchCount: m.MatchCount,
			MatchRatio: m.MatchRatio,
		})
	}
	return results
}
