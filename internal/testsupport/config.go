package testsupport

import (
	"path/filepath"
	"testing"

	"quadify/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := &config.Config{
		Paths: config.Paths{
			PreferenceFile: filepath.Join(base, "preferences.json"),
			HardwareFile:   filepath.Join(base, "hardware.yml"),
			UIStoreFile:    filepath.Join(base, "ui_state.json"),
			BootOverlay:    filepath.Join(base, "config.txt"),
			LogDir:         filepath.Join(base, "logs"),
		},
		Units: config.Units{
			Spectrum:               "cava.service",
			IR:                     []string{"lircd.service", "quadify-ir.service"},
			ButtonsCandidates:      []string{"quadify-buttonsleds.service", "buttonsleds.service"},
			SafeShutdownCandidates: []string{"quadify-safe-shutdown.service", "gpio-poweroff.service"},
		},
		Systemctl: config.Systemctl{
			Binary:         "systemctl",
			JournalBinary:  "journalctl",
			CommandTimeout: 30,
			JournalLines:   20,
		},
		Logging: config.Logging{
			Format: "console",
			Level:  "info",
		},
	}

	builder := &configBuilder{t: t, baseDir: base, cfg: cfg}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithUnits overrides the managed unit set on the test config.
func WithUnits(units config.Units) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Units = units
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.PreferenceFile)
}
