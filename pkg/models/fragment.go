package models

// Fragment is a bounded-size slice of a source document, labeled with the
// nearest enclosing markdown heading. Fragments are value objects: they have
// no identity beyond their fields and are regenerated wholesale on every
// chunk pass. The JSON field names are the persisted cache format.
type Fragment struct {
	Source  string `json:"source"`
	URL     string `json:"url"`
	Header  string `json:"header"`
	Content string `json:"content"`
}

// SearchResult is one ranked fragment returned by a documentation search.
// MatchCount is the number of distinct query keywords found in the fragment;
// MatchRatio is MatchCount divided by the total keyword count.
type SearchResult struct {
	Source     string  `json:"source"`
	URL        string  `json:"url"`
	Header     string  `json:"header"`
	Content    string  `json:"content"`
	MatchCount int     `json:"match_count"`
	MatchRatio float64 `json:"match_ratio"`
}
