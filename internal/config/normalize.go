package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeUnits()
	c.normalizeSystemctl()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PreferenceFile) == "" {
		c.Paths.PreferenceFile = defaultPreferenceFile
	}
	if c.Paths.PreferenceFile, err = expandPath(c.Paths.PreferenceFile); err != nil {
		return fmt.Errorf("paths.preference_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.HardwareFile) == "" {
		c.Paths.HardwareFile = defaultHardwareFile
	}
	if c.Paths.HardwareFile, err = expandPath(c.Paths.HardwareFile); err != nil {
		return fmt.Errorf("paths.hardware_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.UIStoreFile) == "" {
		c.Paths.UIStoreFile = defaultUIStoreFile
	}
	if c.Paths.UIStoreFile, err = expandPath(c.Paths.UIStoreFile); err != nil {
		return fmt.Errorf("paths.ui_store_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.BootOverlay) == "" {
		c.Paths.BootOverlay = defaultBootOverlay
	}
	if c.Paths.BootOverlay, err = expandPath(c.Paths.BootOverlay); err != nil {
		return fmt.Errorf("paths.boot_overlay: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeUnits() {
	c.Units.Spectrum = normalizeUnitName(c.Units.Spectrum)
	if c.Units.Spectrum == "" {
		c.Units.Spectrum = defaultSpectrumUnit
	}
	c.Units.IR = normalizeUnitList(c.Units.IR, defaultIRUnits())
	c.Units.ButtonsCandidates = normalizeUnitList(c.Units.ButtonsCandidates, defaultButtonsCandidates())
	c.Units.SafeShutdownCandidates = normalizeUnitList(c.Units.SafeShutdownCandidates, defaultSafeShutdownCandidates())
}

func normalizeUnitName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if !strings.Contains(name, ".") {
		name += ".service"
	}
	return name
}

func normalizeUnitList(units []string, fallback []string) []string {
	out := make([]string, 0, len(units))
	seen := make(map[string]struct{}, len(units))
	for _, unit := range units {
		normalized := normalizeUnitName(unit)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (c *Config) normalizeSystemctl() {
	c.Systemctl.Binary = strings.TrimSpace(c.Systemctl.Binary)
	if c.Systemctl.Binary == "" {
		c.Systemctl.Binary = defaultSystemctlBinary
	}
	c.Systemctl.JournalBinary = strings.TrimSpace(c.Systemctl.JournalBinary)
	if c.Systemctl.JournalBinary == "" {
		c.Systemctl.JournalBinary = defaultJournalBinary
	}
	if c.Systemctl.CommandTimeout <= 0 {
		c.Systemctl.CommandTimeout = defaultCommandTimeout
	}
	if c.Systemctl.JournalLines <= 0 {
		c.Systemctl.JournalLines = defaultJournalLines
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
