package systemctl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"quadify/internal/config"
	"quadify/internal/logging"
)

// Runner issues systemctl and journalctl commands through an Executor.
type Runner struct {
	executor      Executor
	systemctlBin  string
	journalctlBin string
	journalLines  int
	logger        *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor overrides the executor, used by tests.
func WithExecutor(executor Executor) Option {
	return func(r *Runner) {
		if executor != nil {
			r.executor = executor
		}
	}
}

// NewRunner builds a Runner from configuration.
func NewRunner(cfg config.Systemctl, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		executor:      NewExecutor(commandTimeout(cfg.CommandTimeout)),
		systemctlBin:  cfg.Binary,
		journalctlBin: cfg.JournalBinary,
		journalLines:  cfg.JournalLines,
		logger:        logging.NewComponentLogger(logger, "systemctl"),
	}
	if r.systemctlBin == "" {
		r.systemctlBin = "systemctl"
	}
	if r.journalctlBin == "" {
		r.journalctlBin = "journalctl"
	}
	if r.journalLines <= 0 {
		r.journalLines = 20
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// commandTimeout converts the configured timeout, given in seconds, to a
// Duration. Non-positive input is passed through for NewExecutor to default.
func commandTimeout(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// Systemctl runs a systemctl command and returns combined output.
func (r *Runner) Systemctl(ctx context.Context, args ...string) (string, error) {
	stdout, stderr, err := r.executor.Run(ctx, r.systemctlBin, args)
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = strings.TrimSpace(stdout)
		}
		if detail != "" {
			return stdout, fmt.Errorf("%w: %s", err, detail)
		}
		return stdout, err
	}
	return stdout, nil
}

// Show reads the unit's properties.
func (r *Runner) Show(ctx context.Context, unit string) (UnitStatus, error) {
	args := []string{"show", unit, "--property=" + strings.Join(showProperties, ",")}
	output, err := r.Systemctl(ctx, args...)
	if err != nil {
		return UnitStatus{}, fmt.Errorf("show %s: %w", unit, err)
	}
	return statusFromProperties(ParseShow(output)), nil
}

// LoadState reads just the unit's LoadState, used to probe whether a unit
// file is installed at all.
func (r *Runner) LoadState(ctx context.Context, unit string) (string, error) {
	output, err := r.Systemctl(ctx, "show", unit, "--property=LoadState")
	if err != nil {
		return "", fmt.Errorf("show %s: %w", unit, err)
	}
	return ParseShow(output)["LoadState"], nil
}

// JournalTail captures the last journal lines for a unit. Failures are
// reported in the returned string, never as an error, since diagnostics are
// best effort.
func (r *Runner) JournalTail(ctx context.Context, unit string) string {
	args := []string{"-u", unit, "-n", strconv.Itoa(r.journalLines), "--no-pager"}
	stdout, stderr, err := r.executor.Run(ctx, r.journalctlBin, args)
	if err != nil {
		r.logger.Warn("journal capture failed",
			logging.String(logging.FieldUnit, unit),
			logging.Error(err))
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Sprintf("journal unavailable: %s", detail)
	}
	return strings.TrimSpace(stdout)
}
