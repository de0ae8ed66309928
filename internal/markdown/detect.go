package markdown

import (
	"regexp"
	"strings"
)

// IsMarkdownContentType checks if the Content-Type header indicates markdown.
func IsMarkdownContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/markdown") ||
		strings.HasPrefix(ct, "text/x-markdown")
}

// IsMarkdownURL checks if the URL indicates a markdown file.
func IsMarkdownURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasSuffix(lower, ".md") ||
		strings.HasSuffix(lower, ".markdown") ||
		strings.HasSuffix(lower, ".txt")
}

// IsMarkdownContent uses heuristics to detect if content is markdown. HTML
// documents are rejected first; anything carrying common markdown syntax
// (headings, lists, links) passes.
func IsMarkdownContent(content string) bool {
	if content == "" {
		return false
	}

	trimmed := strings.TrimSpace(content)

	if looksLikeHTML(trimmed) {
		return false
	}

	return hasMarkdownPatterns(trimmed)
}

// looksLikeHTML checks if content appears to be HTML.
func looksLikeHTML(content string) bool {
	lower := strings.ToLower(content)
	return strings.HasPrefix(lower, "<!doctype") ||
		strings.HasPrefix(lower, "<html") ||
		strings.HasPrefix(lower, "<head") ||
		strings.HasPrefix(lower, "<body")
}

var (
	headingRe = regexp.MustCompile(`^#{1,6}\s+\S`)
	listRe    = regexp.MustCompile(`(?m)^[\-\*]\s+\S`)
	linkRe    = regexp.MustCompile(`\[.+?\]\(.+?\)`)
)

// hasMarkdownPatterns checks for common markdown syntax.
func hasMarkdownPatterns(content string) bool {
	return headingRe.MatchString(content) ||
		listRe.MatchString(content) ||
		linkRe.MatchString(content)
}

// MarkdownURLVariants returns potential markdown versions of a URL, probed
// before falling back to HTML conversion. A URL that already points at a
// markdown file has no variants.
func MarkdownURLVariants(url string) []string {
	if IsMarkdownURL(url) {
		return nil
	}
	return []string{strings.TrimSuffix(url, "/") + ".md"}
}

// Detect reports whether a fetched page is already markdown (or plain text
// worth indexing as-is). Checks in order: Content-Type, URL, then content
// heuristics.
func Detect(url, contentType, content string) bool {
	if IsMarkdownContentType(contentType) {
		return true
	}
	if IsMarkdownURL(url) {
		return true
	}
	return IsMarkdownContent(content)
}
