package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/sync/errgroup"

	"github.com/haneul-labs/toss-docs-mcp/internal/config"
	"github.com/haneul-labs/toss-docs-mcp/internal/events"
	"github.com/haneul-labs/toss-docs-mcp/internal/markdown"
	"github.com/haneul-labs/toss-docs-mcp/pkg/models"
)

// linkRe matches [title](url) markdown links in an llms.txt index.
var linkRe = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)

// Link is one entry parsed from an llms.txt index file.
type Link struct {
	Title string
	URL   string
}

// ParseLinks extracts every [title](url) link from an llms.txt index, in
// document order.
func ParseLinks(llmsTxt string) []Link {
	matches := linkRe.FindAllStringSubmatch(llmsTxt, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		links = append(links, Link{Title: m[1], URL: m[2]})
	}
	return links
}

// Collector fetches raw documentation text from the configured sources. A
// "full" source is one combined markdown file; a "seed" source is an
// llms.txt index whose linked pages are fetched individually with bounded
// parallelism. Any single failure is logged and skipped, never fatal to the
// batch.
type Collector struct {
	cfg        config.Collector
	sources    []config.Source
	httpClient *http.Client

	// Events, when non-nil, receives one SourceCollected per configured
	// source. Set it before calling Collect; the collector never closes it.
	Events chan<- events.SourceCollected
}

// New creates a Collector for the given sources.
func New(cfg config.Collector, sources []config.Source) *Collector {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 8
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "toss-docs-mcp/1.0"
	}
	return &Collector{
		cfg:     cfg,
		sources: sources,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Collect fetches every configured source in parallel and returns the
// per-source raw text and documents. A source that fails to fetch is logged
// and omitted from the result; the error return is reserved for context
// cancellation.
func (c *Collector) Collect(ctx context.Context) (models.Collected, error) {
	result := make(models.Collected, len(c.sources))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, src := range c.sources {
		g.Go(func() error {
			start := time.Now()

			raw, err := c.FetchRaw(gctx, src.LLMSURL)
			if err != nil {
				slog.Error("source collection failed", "source", src.Key, "url", src.LLMSURL, "error", err)
				c.emit(events.SourceCollected{Source: src.Key, Name: src.Name, Duration: time.Since(start), Err: err})
				return gctx.Err()
			}

			var docs []models.Document
			if src.Kind == config.KindSeed {
				links := ParseLinks(raw)
				slog.Info("seed index parsed", "source", src.Key, "links", len(links))
				docs = c.fetchSeedPages(gctx, src, links)
			} else {
				docs = []models.Document{{
					Source:  src.Key,
					URL:     src.LLMSURL,
					Title:   src.Name,
					Content: raw,
				}}
			}

			mu.Lock()
			result[src.Key] = models.SourceContent{RawText: raw, Documents: docs}
			mu.Unlock()

			c.emit(events.SourceCollected{Source: src.Key, Name: src.Name, Pages: len(docs), Duration: time.Since(start)})
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}

	counts := make(map[string]int, len(result))
	for key, content := range result {
		counts[key] = len(content.Documents)
	}
	slog.Info("collection complete", "documents", counts)

	return result, nil
}

// FetchRaw downloads the text at url. Non-2xx responses are errors.
func (c *Collector) FetchRaw(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}

// fetchSeedPages fetches every linked page of a seed source concurrently and
// reassembles the documents in llms.txt link order. Failed pages are logged
// and skipped.
func (c *Collector) fetchSeedPages(ctx context.Context, src config.Source, links []Link) []models.Document {
	if len(links) == 0 {
		return nil
	}

	// First occurrence wins for duplicate URLs in the index.
	indexByURL := make(map[string]int, len(links))
	for i, link := range links {
		if _, seen := indexByURL[link.URL]; !seen {
			indexByURL[link.URL] = i
		}
	}

	fetched := make([]*models.Document, len(links))
	var mu sync.Mutex

	col := colly.NewCollector(
		colly.UserAgent(c.cfg.UserAgent),
		colly.Async(true),
	)
	col.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: c.cfg.Concurrency,
	})
	col.SetRequestTimeout(c.cfg.Timeout)

	col.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	col.OnResponse(func(r *colly.Response) {
		pageURL := r.Request.URL.String()
		idx, ok := indexByURL[pageURL]
		if !ok {
			return
		}
		if r.StatusCode >= 300 {
			slog.Warn("skipping page with error status", "url", pageURL, "status", r.StatusCode)
			return
		}

		doc := c.buildDocument(ctx, src, links[idx], string(r.Body), r.Headers.Get("Content-Type"))

		mu.Lock()
		fetched[idx] = &doc
		mu.Unlock()
	})

	col.OnError(func(r *colly.Response, err error) {
		slog.Warn("page fetch failed", "url", r.Request.URL.String(), "error", err)
	})

	for url := range indexByURL {
		col.Visit(url)
	}
	col.Wait()

	docs := make([]models.Document, 0, len(links))
	for _, doc := range fetched {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}

	slog.Debug("seed pages collected", "source", src.Key, "pages", len(docs), "links", len(links))
	return docs
}

// buildDocument normalizes one fetched seed page into a Document. HTML pages
// are converted to markdown; when enabled, a markdown variant of the URL is
// probed first and wins over conversion.
func (c *Collector) buildDocument(ctx context.Context, src config.Source, link Link, content, contentType string) models.Document {
	if c.cfg.TryMarkdownFirst && !markdown.Detect(link.URL, contentType, content) {
		if mdContent, mdType, ok := c.tryMarkdownVariants(ctx, link.URL); ok {
			slog.Debug("using markdown variant", "url", link.URL)
			content = mdContent
			contentType = mdType
		}
	}

	title := link.Title
	if markdown.Detect(link.URL, contentType, content) {
		if t := markdown.ExtractMarkdownTitle(content); t != "" {
			title = t
		}
	} else {
		if t := markdown.ExtractTitle(content); t != "" {
			title = t
		}
		converted, err := markdown.Convert(content)
		if err != nil {
			slog.Warn("html conversion failed, keeping raw content", "url", link.URL, "error", err)
		} else {
			content = converted
		}
	}

	return models.Document{
		Source:  src.Key,
		URL:     link.URL,
		Title:   title,
		Content: content,
	}
}

// tryMarkdownVariants attempts to fetch markdown versions of the URL.
func (c *Collector) tryMarkdownVariants(ctx context.Context, pageURL string) (string, string, bool) {
	for _, variant := range markdown.MarkdownURLVariants(pageURL) {
		if ctx.Err() != nil {
			return "", "", false
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, variant, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			continue
		}

		content := string(body)
		contentType := resp.Header.Get("Content-Type")
		if markdown.Detect(variant, contentType, content) {
			return content, contentType, true
		}
	}
	return "", "", false
}

func (c *Collector) emit(ev events.SourceCollected) {
	if c.Events != nil {
		c.Events <- ev
	}
}
