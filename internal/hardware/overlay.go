package hardware

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"quadify/internal/logging"
)

var gpioIROverlayPattern = regexp.MustCompile(`^\s*dtoverlay=gpio-ir(,|\s|$)`)

// Overlay rewrites the boot overlay file when the IR GPIO pin changes.
type Overlay struct {
	path   string
	logger *slog.Logger
}

// NewOverlay creates an overlay rewriter for the given boot config file.
func NewOverlay(path string, logger *slog.Logger) *Overlay {
	return &Overlay{
		path:   path,
		logger: logging.NewComponentLogger(logger, "bootoverlay"),
	}
}

// CommitIRPin removes every existing gpio-ir overlay line and appends exactly
// one replacement for the given pin. Idempotent: applying the same pin twice
// leaves the file unchanged after the first call.
func (o *Overlay) CommitIRPin(pin int) error {
	data, err := os.ReadFile(o.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read boot overlay: %w", err)
	}

	lines := []string{}
	if len(data) > 0 {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}

	kept := make([]string, 0, len(lines)+1)
	removed := 0
	for _, line := range lines {
		if gpioIROverlayPattern.MatchString(line) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	kept = append(kept, fmt.Sprintf("dtoverlay=gpio-ir,gpio_pin=%d", pin))

	content := strings.Join(kept, "\n") + "\n"
	tmpPath := o.path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write temp boot overlay: %w", err)
	}
	if err := os.Rename(tmpPath, o.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp boot overlay: %w", err)
	}

	o.logger.Info("committed IR overlay",
		logging.String(logging.FieldPath, o.path),
		logging.Int("gpio_pin", pin),
		logging.Int("replaced_lines", removed))
	return nil
}
