package uistore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"quadify/internal/logging"
	"quadify/internal/prefs"
)

// Store is the UI-facing key/value store backed by a JSON file.
type Store struct {
	path   string
	logger *slog.Logger
	values map[string]any
}

// Open loads the store from disk. Missing or corrupt files start empty;
// wrapped values are unwrapped at ingestion.
func Open(path string, logger *slog.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "uistore"),
		values: make(map[string]any),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("ui store unreadable, starting empty",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
		}
		return s
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("ui store corrupt, starting empty",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return s
	}
	for key, value := range raw {
		s.values[key] = prefs.Unwrap(value)
	}
	return s
}

// Get returns the bare value for key.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a bare value for key. Wrapper objects are unwrapped so the
// store never persists the wrapped shape.
func (s *Store) Set(key string, value any) {
	s.values[key] = prefs.Unwrap(value)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Save writes the store atomically.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ui store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create ui store directory: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp ui store: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp ui store: %w", err)
	}
	return nil
}
