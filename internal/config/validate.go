package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateUnits(); err != nil {
		return err
	}
	if err := c.validateSystemctl(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	for key, value := range map[string]string{
		"paths.preference_file": c.Paths.PreferenceFile,
		"paths.hardware_file":   c.Paths.HardwareFile,
		"paths.ui_store_file":   c.Paths.UIStoreFile,
		"paths.boot_overlay":    c.Paths.BootOverlay,
	} {
		if value == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	if c.Paths.PreferenceFile == c.Paths.UIStoreFile {
		return errors.New("paths.preference_file and paths.ui_store_file must differ")
	}
	return nil
}

func (c *Config) validateUnits() error {
	if c.Units.Spectrum == "" {
		return errors.New("units.spectrum must be set")
	}
	if len(c.Units.IR) == 0 {
		return errors.New("units.ir must include at least one unit")
	}
	if len(c.Units.ButtonsCandidates) == 0 {
		return errors.New("units.buttons_candidates must include at least one candidate")
	}
	return nil
}

func (c *Config) validateSystemctl() error {
	if c.Systemctl.CommandTimeout <= 0 {
		return errors.New("systemctl.command_timeout must be positive (seconds)")
	}
	if c.Systemctl.JournalLines <= 0 {
		return errors.New("systemctl.journal_lines must be positive")
	}
	return nil
}
