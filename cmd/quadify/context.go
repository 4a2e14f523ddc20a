package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"quadify/internal/config"
	"quadify/internal/hardware"
	"quadify/internal/logging"
	"quadify/internal/orchestrator"
	"quadify/internal/prefs"
	"quadify/internal/systemctl"
	"quadify/internal/uistore"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: os.Stderr,
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) prefStore() (*prefs.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return prefs.NewStore(cfg.Paths.PreferenceFile, c.ensureLogger()), nil
}

func (c *commandContext) hardwareAdapter() (*hardware.Adapter, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return hardware.NewAdapter(cfg.Paths.HardwareFile, c.ensureLogger()), nil
}

func (c *commandContext) bootOverlay() (*hardware.Overlay, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return hardware.NewOverlay(cfg.Paths.BootOverlay, c.ensureLogger()), nil
}

func (c *commandContext) uiStore() (*uistore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return uistore.Open(cfg.Paths.UIStoreFile, c.ensureLogger()), nil
}

func (c *commandContext) newOrchestrator() (*orchestrator.Orchestrator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.ensureLogger()
	runner := systemctl.NewRunner(cfg.Systemctl, logger)
	return orchestrator.New(cfg.Units, runner, logger), nil
}
