package metadata

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/spf13/afero"
)

// Store is the flat key-value cache of fetched metadata records, one JSON
// document on disk keyed by stringified id. Reads are concurrent; writes are
// single-writer. Nothing touches disk between Load and Persist.
type Store[T any] struct {
	mu      sync.RWMutex
	fs      afero.Fs
	path    string
	entries map[string]T
	log     *slog.Logger
}

// NewStore creates an empty store backed by the given file. Call Load to
// read any previous run's entries.
func NewStore[T any](fsys afero.Fs, path string, log *slog.Logger) *Store[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Store[T]{
		fs:      fsys,
		path:    path,
		entries: make(map[string]T),
		log:     log.With("component", "cache", "file", filepath.Base(path)),
	}
}

// Load reads the cache file. A missing file leaves the store empty; a
// malformed one is logged and degrades to an empty store. Load never fails
// the run.
func (s *Store[T]) Load() {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return
	}

	entries := make(map[string]T)
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn("cache file is malformed, starting empty", "error", err)
		return
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	s.log.Info("loaded cache", "entries", len(entries))
}

// Get returns the record stored for id.
func (s *Store[T]) Get(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.entries[strconv.Itoa(id)]
	return rec, ok
}

// Contains reports whether id is cached.
func (s *Store[T]) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[strconv.Itoa(id)]
	return ok
}

// PutIfAbsent stores rec under id unless an entry already exists. An entry,
// once written, is never overwritten within a run; concurrent duplicate
// fetches keep the first result. Reports whether the record was stored.
func (s *Store[T]) PutIfAbsent(id int, rec T) bool {
	key := strconv.Itoa(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return false
	}
	s.entries[key] = rec
	return true
}

// Len returns the number of cached records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Persist writes the full mapping atomically (temp file, then rename).
// Callers treat failure as non-fatal: the in-memory results still stand.
func (s *Store[T]) Persist() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cache: ensure dir %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("cache: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("cache: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("cache: close %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("cache: rename %s: %w", tmpName, err)
	}

	s.log.Info("cache saved", "entries", s.Len())
	return nil
}
