package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/haneul-labs/toss-docs-mcp/pkg/models"
)

const (
	defaultDirName = ".toss-docs-mcp"
	chunksFile     = "chunks.json"
	hashesFile     = "hashes.json"
)

// Store persists the fragment cache and the per-source content digests as
// two JSON files under one directory. Every write replaces a whole file;
// there are no partial updates. A single writer is assumed.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. An empty dir selects ~/.toss-docs-mcp.
func New(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, defaultDirName)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.dir
}

// ComputeDigest returns the SHA-256 hex digest of text.
func ComputeDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NeedsRefresh reports whether cached fragments are stale relative to the
// given raw source texts. Any digest mismatch for a provided key (including
// a missing stored digest) means stale; keys absent from raw are not
// considered. A missing fragment cache always needs a refresh.
func (s *Store) NeedsRefresh(raw map[string]string) bool {
	stored := s.loadHashes()
	for key, text := range raw {
		if stored[key] != ComputeDigest(text) {
			slog.Info("source digest changed", "source", key)
			return true
		}
	}
	if _, err := os.Stat(filepath.Join(s.dir, chunksFile)); err != nil {
		return true
	}
	slog.Debug("source digests match, cache is fresh")
	return false
}

// UpdateHashes overwrites the whole hash record with digests of the given
// raw texts.
func (s *Store) UpdateHashes(raw map[string]string) error {
	digests := make(map[string]string, len(raw))
	for key, text := range raw {
		digests[key] = ComputeDigest(text)
	}
	return s.writeJSON(hashesFile, digests)
}

// LoadFragments returns the persisted fragment sequence, or (nil, nil) when
// no cache file exists.
func (s *Store) LoadFragments() ([]models.Fragment, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, chunksFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fragment cache: %w", err)
	}

	var fragments []models.Fragment
	if err := json.Unmarshal(data, &fragments); err != nil {
		return nil, fmt.Errorf("failed to parse fragment cache: %w", err)
	}

	slog.Info("fragment cache loaded", "fragments", len(fragments))
	return fragments, nil
}

// SaveFragments replaces the persisted fragment cache wholesale.
func (s *Store) SaveFragments(fragments []models.Fragment) error {
	if err := s.writeJSON(chunksFile, fragments); err != nil {
		return err
	}
	slog.Info("fragment cache saved", "fragments", len(fragments))
	return nil
}

func (s *Store) loadHashes() map[string]string {
	data, err := os.ReadFile(filepath.Join(s.dir, hashesFile))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}
	}
	if err != nil {
		slog.Error("failed to read hash record", "error", err)
		return map[string]string{}
	}

	var hashes map[string]string
	if err := json.Unmarshal(data, &hashes); err != nil {
		slog.Error("failed to parse hash record", "error", err)
		return map[string]string{}
	}
	return hashes
}

// writeJSON marshals v and replaces dir/name in one rename so a reader sees
// either the old file or the new one, never a partial write.
func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
