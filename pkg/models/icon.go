package models

// IconItem is one entry of the packaged icon catalog.
type IconItem struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Src  string `json:"src"`
}

// IconResult is one ranked catalog entry returned by an icon search.
type IconResult struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Src        string  `json:"src"`
	MatchCount int     `json:"match_count"`
	MatchRatio float64 `json:"match_ratio"`
}
