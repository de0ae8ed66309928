package chunker

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/haneul-labs/toss-docs-mcp/pkg/models"
)

// MaxChunkLen is the target upper bound for fragment content length. It is
// not a hard guarantee: a single line longer than this is emitted unmodified
// rather than truncated.
const MaxChunkLen = 3000

// Heading boundary patterns, in fallback order. Splitting descends one level
// at a time: H1 first, then H2, then H3, then forced paragraph packing.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^# `),
	regexp.MustCompile(`(?m)^## `),
	regexp.MustCompile(`(?m)^### `),
}

var paragraphRe = regexp.MustCompile(`\n\n+`)

// ChunkDocument splits one document into ordered fragments. Top-level
// headings form the primary boundaries; oversized parts are subdivided by
// deeper headings and, failing that, by paragraphs and lines. The function
// is pure: identical input yields an identical fragment sequence.
func ChunkDocument(doc models.Document) []models.Fragment {
	h1Parts := splitByPattern(doc.Content, headingPatterns[0])

	var fragments []models.Fragment
	for _, part := range h1Parts {
		for _, sub := range splitChunk(part, 1) {
			content := strings.TrimSpace(sub)
			if content == "" {
				continue
			}
			fragments = append(fragments, models.Fragment{
				Source:  doc.Source,
				URL:     doc.URL,
				Header:  extractHeader(sub),
				Content: content,
			})
		}
	}
	return fragments
}

// ChunkAll chunks every document of every collected source. Fragments are
// emitted in the given source-key order, then in document order within each
// source, so the output is deterministic for a fixed input.
func ChunkAll(collected models.Collected, order []string) []models.Fragment {
	var all []models.Fragment
	for _, key := range order {
		content, ok := collected[key]
		if !ok {
			continue
		}
		for _, doc := range content.Documents {
			all = append(all, ChunkDocument(doc)...)
		}
	}

	var total, maxLen int
	for _, f := range all {
		total += len(f.Content)
		if len(f.Content) > maxLen {
			maxLen = len(f.Content)
		}
	}
	avg := 0
	if len(all) > 0 {
		avg = total / len(all)
	}
	slog.Info("chunking complete", "fragments", len(all), "avg_len", avg, "max_len", maxLen)

	return all
}

// splitChunk subdivides text until every piece fits MaxChunkLen, trying
// heading levels from patterns[level] downward. A level is only recursed
// into when it actually subdivides the text (more than one part); otherwise
// the next level is tried, and past H3 the text is force-split.
func splitChunk(text string, level int) []string {
	if len(text) <= MaxChunkLen {
		return []string{text}
	}

	for lvl := level; lvl < len(headingPatterns); lvl++ {
		parts := splitByPattern(text, headingPatterns[lvl])
		if len(parts) <= 1 {
			continue
		}
		var result []string
		for _, p := range parts {
			result = append(result, splitChunk(p, lvl+1)...)
		}
		return result
	}

	return forceSplit(text)
}

// splitByPattern splits text at the start offset of every pattern match.
// Content before the first match becomes its own part when non-empty. Parts
// are trimmed and empty parts dropped. Without any match the text is
// returned whole, untouched.
func splitByPattern(text string, re *regexp.Regexp) []string {
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	var parts []string
	if matches[0][0] > 0 {
		if preamble := strings.TrimSpace(text[:matches[0][0]]); preamble != "" {
			parts = append(parts, preamble)
		}
	}

	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if part := strings.TrimSpace(text[m[0]:end]); part != "" {
			parts = append(parts, part)
		}
	}

	return parts
}

// forceSplit packs blank-line-delimited paragraphs greedily into chunks of
// at most MaxChunkLen. A single paragraph over the limit is split further by
// lines.
func forceSplit(text string) []string {
	paragraphs := paragraphRe.Split(text, -1)

	var chunks []string
	current := ""
	for _, para := range paragraphs {
		if len(para) > MaxChunkLen {
			if strings.TrimSpace(current) != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				current = ""
			}
			chunks = append(chunks, splitByLines(para)...)
			continue
		}
		// +2 accounts for the joining blank line.
		if len(current)+len(para)+2 > MaxChunkLen && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
			current = para
		} else if current != "" {
			current = current + "\n\n" + para
		} else {
			current = para
		}
	}
	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// splitByLines packs individual lines greedily into chunks of at most
// MaxChunkLen. A single line over the limit is emitted as its own chunk,
// never truncated.
func splitByLines(text string) []string {
	lines := strings.Split(text, "\n")

	var chunks []string
	current := ""
	for _, line := range lines {
		if len(current)+len(line)+1 > MaxChunkLen && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
			current = line
		} else if current != "" {
			current = current + "\n" + line
		} else {
			current = line
		}
	}
	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// extractHeader returns the first heading line inside text with its leading
// '#' markers stripped, or "" when the text contains no heading.
func extractHeader(text string) string {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	return ""
}
