package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"quadify/internal/logging"
)

// Store persists the raw preference document. Writes are atomic (temp file
// plus rename) and the read-merge-write cycle in SaveCanonical runs under a
// file lock so concurrent save handlers cannot drop each other's changes.
type Store struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock
}

// NewStore creates a preference store for the given path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "prefstore"),
		lock:   flock.New(path + ".lock"),
	}
}

// Path returns the preference file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the raw document. Missing or corrupt files yield an empty
// document; load never fails.
func (s *Store) Load() Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("preference file unreadable, starting empty",
				logging.String(logging.FieldPath, s.path),
				logging.Error(err))
		}
		return Document{}
	}
	if len(data) == 0 {
		return Document{}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("preference file corrupt, starting empty",
			logging.String(logging.FieldPath, s.path),
			logging.Error(err))
		return Document{}
	}
	if doc == nil {
		return Document{}
	}
	return doc
}

// Save writes the document atomically, creating the parent directory when
// needed. No reader ever observes a partial write.
func (s *Store) Save(doc Document) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock preference file: %w", err)
	}
	defer s.lock.Unlock()
	return s.write(doc)
}

// ensureDir creates the parent directory. The lock file lives next to the
// preference file, so the directory must exist before the lock is taken.
func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preference directory: %w", err)
	}
	return nil
}

func (s *Store) write(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// SaveCanonical merges the canonical preference and its legacy mirror onto
// the current raw document and persists the result in one atomic write.
// Unknown top-level keys survive unmodified; nested and flat representations
// stay mutually consistent. Returns the merged document.
func (s *Store) SaveCanonical(c Canonical) (Document, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock preference file: %w", err)
	}
	defer s.lock.Unlock()

	doc := s.Load().Clone()
	merged := MergeCanonical(doc, c)
	if err := s.write(merged); err != nil {
		return nil, err
	}
	s.logger.Debug("saved canonical preferences",
		logging.String(logging.FieldPath, s.path),
		logging.String("screen", c.Display.Screen))
	return merged, nil
}

// MergeCanonical overlays the canonical sections and the legacy mirror onto
// doc in place and returns it. Exposed for the settings boundary to preview
// a merge without persisting.
func MergeCanonical(doc Document, c Canonical) Document {
	if doc == nil {
		doc = Document{}
	}

	doc["display"] = map[string]any{
		"spectrum":        c.Display.Spectrum,
		"screen":          ScreenToDisk(c.Display.Screen),
		"rotate":          c.Display.Rotate,
		"oled_brightness": c.Display.OLEDBrightness,
	}
	doc["controls"] = map[string]any{
		"buttons_led_service": c.Controls.ButtonsLEDService,
		"mcp23017_address":    c.Controls.MCP23017Address,
	}
	doc["ir"] = map[string]any{
		"enabled":  c.IR.Enabled,
		"profile":  c.IR.Profile,
		"gpio_bcm": c.IR.GPIOBCM,
	}
	doc["safety"] = map[string]any{
		"safe_shutdown": c.Safety.SafeShutdown,
		"clean_mode":    c.Safety.CleanMode,
	}

	priorSub := storedSubMode(doc)
	mirror := MirrorSet(c, priorSub)
	if _, hasSub := mirror["modern_spectrum_mode"]; !hasSub {
		// Non-modern screens clear the stored sub-mode.
		if ScreenToLegacy(c.Display.Screen, priorSub).DisplayMode != "modern" {
			delete(doc, "modern_spectrum_mode")
		}
	}
	for key, value := range mirror {
		doc[key] = value
	}
	return doc
}
