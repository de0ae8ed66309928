package models

// Document represents one fetched documentation page, or the whole text of a
// source that publishes a single combined markdown file.
type Document struct {
	Source  string `json:"source"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SourceContent is the fetch output for a single source. RawText is the
// exact text retrieved from the source's llms URL and is the basis for
// staleness digests; Documents holds every page to be chunked.
type SourceContent struct {
	RawText   string
	Documents []Document
}

// Collected maps source keys to their fetch output.
type Collected map[string]SourceContent
