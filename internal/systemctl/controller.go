package systemctl

import (
	"context"
	"fmt"
	"log/slog"

	"quadify/internal/logging"
	"quadify/internal/services"
)

// Outcome describes the state a unit landed in after an Apply pass.
type Outcome struct {
	Unit         string
	Desired      bool
	Active       bool
	Enabled      bool
	Matched      bool
	FallbackUsed bool
	Diagnostics  string
}

// Controller drives units toward a desired state. Each Apply runs a primary
// command sequence, verifies, and falls back to a second sequence at most
// once before giving up and capturing diagnostics.
type Controller struct {
	runner *Runner
	logger *slog.Logger
}

// NewController wraps a Runner.
func NewController(runner *Runner, logger *slog.Logger) *Controller {
	return &Controller{
		runner: runner,
		logger: logging.NewComponentLogger(logger, "servicectl"),
	}
}

// Apply drives unit to the desired enablement. Individual command failures
// within a sequence are logged and skipped; only the verified end state
// decides success.
func (c *Controller) Apply(ctx context.Context, unit string, enable bool) (Outcome, error) {
	outcome := Outcome{Unit: unit, Desired: enable}

	var primary, fallback [][]string
	if enable {
		primary = [][]string{
			{"daemon-reload"},
			{"enable", "--now", unit},
		}
		fallback = [][]string{
			{"start", unit},
		}
	} else {
		primary = [][]string{
			{"disable", "--now", unit},
		}
		fallback = [][]string{
			{"stop", unit},
			{"disable", unit},
		}
	}

	c.runSequence(ctx, unit, primary)
	status, err := c.runner.Show(ctx, unit)
	if err != nil {
		c.logger.Warn("state verification failed",
			logging.String(logging.FieldUnit, unit),
			logging.Error(err))
	}
	outcome.Active = status.Active()
	outcome.Enabled = status.Enabled()
	outcome.Matched = matched(status, enable)

	if !outcome.Matched {
		outcome.FallbackUsed = true
		c.logger.Info("primary sequence did not converge, running fallback",
			logging.String(logging.FieldUnit, unit),
			logging.Bool("enable", enable))
		c.runSequence(ctx, unit, fallback)
		status, err = c.runner.Show(ctx, unit)
		if err != nil {
			c.logger.Warn("state verification failed",
				logging.String(logging.FieldUnit, unit),
				logging.Error(err))
		}
		outcome.Active = status.Active()
		outcome.Enabled = status.Enabled()
		outcome.Matched = matched(status, enable)
	}

	if !outcome.Matched {
		outcome.Diagnostics = c.runner.JournalTail(ctx, unit)
		c.logger.Error("unit did not reach desired state",
			logging.String(logging.FieldUnit, unit),
			logging.Bool("desired_enable", enable),
			logging.String("active_state", status.ActiveState),
			logging.String("unit_file_state", status.UnitFileState))
		return outcome, services.Wrap(services.ErrExternalTool, "systemctl", "apply", unit,
			fmt.Errorf("unit did not reach desired state (active=%s, enabled=%s)",
				status.ActiveState, status.UnitFileState))
	}

	c.logger.Info("unit converged",
		logging.String(logging.FieldUnit, unit),
		logging.Bool("enable", enable),
		logging.Bool("fallback_used", outcome.FallbackUsed))
	return outcome, nil
}

// Status reads the unit's current state without changing it.
func (c *Controller) Status(ctx context.Context, unit string) (UnitStatus, error) {
	return c.runner.Show(ctx, unit)
}

func (c *Controller) runSequence(ctx context.Context, unit string, sequence [][]string) {
	for _, args := range sequence {
		if _, err := c.runner.Systemctl(ctx, args...); err != nil {
			c.logger.Warn("command failed, continuing",
				logging.String(logging.FieldUnit, unit),
				logging.String("command", args[0]),
				logging.Error(err))
		}
	}
}

func matched(status UnitStatus, enable bool) bool {
	if enable {
		return status.Active() && status.Enabled()
	}
	return !status.Active() && !status.Enabled()
}
