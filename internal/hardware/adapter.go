package hardware

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"quadify/internal/logging"
	"quadify/internal/prefs"
)

// Adapter reads and writes the hardware descriptor file.
type Adapter struct {
	path   string
	logger *slog.Logger
}

// NewAdapter creates a descriptor adapter for the given path.
func NewAdapter(path string, logger *slog.Logger) *Adapter {
	return &Adapter{
		path:   path,
		logger: logging.NewComponentLogger(logger, "hardware"),
	}
}

// Path returns the descriptor file location.
func (a *Adapter) Path() string {
	return a.path
}

// LoadYAML reads the descriptor. Missing or unparseable files yield an empty
// map; the failure is logged, never raised.
func (a *Adapter) LoadYAML() map[string]any {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			a.logger.Warn("hardware descriptor unreadable",
				logging.String(logging.FieldPath, a.path),
				logging.Error(err))
		}
		return map[string]any{}
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		a.logger.Warn("hardware descriptor corrupt, ignoring",
			logging.String(logging.FieldPath, a.path),
			logging.Error(err))
		return map[string]any{}
	}
	if m == nil {
		return map[string]any{}
	}
	return m
}

// SaveYAML overwrites the descriptor atomically.
func (a *Adapter) SaveYAML(m map[string]any) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal hardware descriptor: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("create descriptor directory: %w", err)
	}

	tmpPath := a.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp descriptor: %w", err)
	}
	if err := os.Rename(tmpPath, a.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp descriptor: %w", err)
	}
	return nil
}

// SetField updates one descriptor field through a read-modify-write cycle.
func (a *Adapter) SetField(key string, value any) error {
	m := a.LoadYAML()
	m[key] = value
	return a.SaveYAML(m)
}

// Truth extracts the hardware overrides from the current descriptor.
func (a *Adapter) Truth() prefs.Truth {
	return TruthFromYAML(a.LoadYAML())
}
