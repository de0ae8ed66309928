package docs

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haneul-labs/toss-docs-mcp/internal/cache"
	"github.com/haneul-labs/toss-docs-mcp/internal/chunker"
	"github.com/haneul-labs/toss-docs-mcp/internal/config"
	"github.com/haneul-labs/toss-docs-mcp/internal/icons"
	"github.com/haneul-labs/toss-docs-mcp/internal/searcher"
	"github.com/haneul-labs/toss-docs-mcp/pkg/models"
)

// MaxResultLimit caps the per-query result count a caller may request.
const MaxResultLimit = 50

const queryCacheSize = 512

// Fetcher produces the per-source raw text and documents the service chunks
// and indexes.
type Fetcher interface {
	Collect(ctx context.Context) (models.Collected, error)
}

// SyncResult reports the outcome of a Sync call.
type SyncResult struct {
	Fragments int
	Refreshed bool
}

// Service owns the in-memory fragment sequence and orchestrates loading,
// refreshing and searching it. The fragment slice is replaced wholesale
// under the write lock; readers see either the old or the new sequence in
// full. There is one writer at a time.
type Service struct {
	cfg       config.Config
	store     *cache.Store
	collector Fetcher
	catalog   *icons.Catalog

	mu         sync.RWMutex
	fragments  []models.Fragment
	queryCache *lru.Cache[[32]byte, []models.SearchResult]
}

// New creates a Service. catalog may be empty but not nil.
func New(cfg config.Config, store *cache.Store, collector Fetcher, catalog *icons.Catalog) *Service {
	// Only errors on a non-positive size.
	queryCache, _ := lru.New[[32]byte, []models.SearchResult](queryCacheSize)
	return &Service{
		cfg:        cfg,
		store:      store,
		collector:  collector,
		catalog:    catalog,
		queryCache: queryCache,
	}
}

// EnsureLoaded makes the fragment sequence available, favoring fast startup
// over freshness: fragments already in memory win, then a non-empty
// persisted cache, and only with neither does it collect and chunk from the
// network.
func (s *Service) EnsureLoaded(ctx context.Context) error {
	if s.Loaded() {
		return nil
	}

	fragments, err := s.store.LoadFragments()
	if err != nil {
		slog.Error("fragment cache unreadable, refreshing", "error", err)
	}
	if len(fragments) > 0 {
		s.install(fragments)
		return nil
	}

	slog.Info("no fragment cache, collecting sources")
	return s.refresh(ctx)
}

// Sync refreshes the fragment sequence. With force it always re-collects,
// re-chunks and re-persists. Without force it re-collects and only re-chunks
// when a source digest changed; a fresh cache is reused as-is.
func (s *Service) Sync(ctx context.Context, force bool) (SyncResult, error) {
	if force {
		if err := s.refresh(ctx); err != nil {
			return SyncResult{}, err
		}
		return SyncResult{Fragments: s.Fragments(), Refreshed: true}, nil
	}

	collected, err := s.collector.Collect(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("collection failed: %w", err)
	}
	if len(collected) == 0 {
		return SyncResult{}, fmt.Errorf("no sources could be collected")
	}

	if s.store.NeedsRefresh(rawTexts(collected)) {
		if err := s.rebuild(collected); err != nil {
			return SyncResult{}, err
		}
		return SyncResult{Fragments: s.Fragments(), Refreshed: true}, nil
	}

	fragments, err := s.store.LoadFragments()
	if err != nil || len(fragments) == 0 {
		// Cache claimed fresh but unusable; rebuild from what we collected.
		slog.Error("fresh cache unusable, rebuilding", "error", err)
		if err := s.rebuild(collected); err != nil {
			return SyncResult{}, err
		}
		return SyncResult{Fragments: s.Fragments(), Refreshed: true}, nil
	}

	s.install(fragments)
	return SyncResult{Fragments: len(fragments), Refreshed: false}, nil
}

// refresh collects every source, chunks the result and persists it.
func (s *Service) refresh(ctx context.Context) error {
	collected, err := s.collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}
	if len(collected) == 0 {
		return fmt.Errorf("no sources could be collected")
	}
	return s.rebuild(collected)
}

// rebuild chunks collected content, replaces the persisted cache and hash
// record, and installs the new sequence. The digests are computed from the
// same raw texts the chunks came from.
func (s *Service) rebuild(collected models.Collected) error {
	fragments := chunker.ChunkAll(collected, s.cfg.SourceKeys())

	if err := s.store.SaveFragments(fragments); err != nil {
		return fmt.Errorf("failed to persist fragments: %w", err)
	}
	if err := s.store.UpdateHashes(rawTexts(collected)); err != nil {
		return fmt.Errorf("failed to persist hashes: %w", err)
	}

	s.install(fragments)
	return nil
}

// install replaces the in-memory sequence and drops every cached query
// result computed against the old one.
func (s *Service) install(fragments []models.Fragment) {
	s.mu.Lock()
	s.fragments = fragments
	s.mu.Unlock()
	s.queryCache.Purge()
}

// Loaded reports whether a fragment sequence is in memory.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fragments) > 0
}

// Fragments returns the current in-memory fragment count.
func (s *Service) Fragments() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fragments)
}

// Search ranks the loaded fragments against a keyword query. source, when
// non-empty, must be a configured source key; limit 0 selects the
// configured default.
func (s *Service) Search(query, source string, limit int) ([]models.SearchResult, error) {
	limit, err := s.validate(query, limit)
	if err != nil {
		return nil, err
	}
	if source != "" {
		if _, ok := s.cfg.SourceByKey(source); !ok {
			return nil, fmt.Errorf("unknown source %q (valid: %s)", source, strings.Join(s.cfg.SourceKeys(), ", "))
		}
	}

	key := queryKey(query, source, limit)
	if cached, ok := s.queryCache.Get(key); ok {
		return cached, nil
	}

	s.mu.RLock()
	fragments := s.fragments
	s.mu.RUnlock()

	results := searcher.Search(fragments, query, source, limit)
	s.queryCache.Add(key, results)
	return results, nil
}

// SearchIcons ranks the icon catalog against a keyword query. typeFilter,
// when non-empty, must be one of the supported catalog types.
func (s *Service) SearchIcons(query, typeFilter string, limit int) ([]models.IconResult, error) {
	limit, err := s.validate(query, limit)
	if err != nil {
		return nil, err
	}
	if typeFilter != "" && !validIconType(typeFilter) {
		return nil, fmt.Errorf("unknown icon type %q (valid: %s)", typeFilter, strings.Join(icons.SupportedTypes, ", "))
	}

	return s.catalog.Search(query, typeFilter, limit), nil
}

// validate rejects caller input errors synchronously and resolves the
// effective result limit.
func (s *Service) validate(query string, limit int) (int, error) {
	if strings.TrimSpace(query) == "" {
		return 0, fmt.Errorf("query must not be empty")
	}
	if limit == 0 {
		limit = s.cfg.Search.MaxResults
		if limit <= 0 {
			limit = searcher.DefaultMaxResults
		}
	}
	if limit < 1 || limit > MaxResultLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d, got %d", MaxResultLimit, limit)
	}
	return limit, nil
}

func validIconType(typeFilter string) bool {
	for _, t := range icons.SupportedTypes {
		if strings.EqualFold(t, typeFilter) {
			return true
		}
	}
	return false
}

func queryKey(query, source string, limit int) [32]byte {
	return sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%d", query, source, limit)))
}

func rawTexts(collected models.Collected) map[string]string {
	raw := make(map[string]string, len(collected))
	for key, content := range collected {
		raw[key] = content.RawText
	}
	return raw
}
