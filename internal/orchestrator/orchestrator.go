// Package orchestrator fans a canonical preference out to the managed
// service capabilities and joins the per-capability results.
package orchestrator

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"quadify/internal/config"
	"quadify/internal/logging"
	"quadify/internal/prefs"
	"quadify/internal/systemctl"
)

// Capability names, in the order results are reported.
const (
	CapabilitySpectrum     = "spectrum-visualizer"
	CapabilityButtonsLEDs  = "buttons-leds"
	CapabilityIR           = "ir-remote"
	CapabilitySafeShutdown = "safe-shutdown"
)

var capabilityOrder = []string{
	CapabilitySpectrum,
	CapabilityButtonsLEDs,
	CapabilityIR,
	CapabilitySafeShutdown,
}

// Result is the outcome of reconciling one capability.
type Result struct {
	Capability string
	Desired    bool
	Outcomes   []systemctl.Outcome
	Skipped    bool
	SkipReason string
	Err        error
}

// Orchestrator reconciles capabilities against systemd concurrently.
type Orchestrator struct {
	units      config.Units
	controller *systemctl.Controller
	runner     *systemctl.Runner
	logger     *slog.Logger
}

// New builds an Orchestrator.
func New(units config.Units, runner *systemctl.Runner, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		units:      units,
		controller: systemctl.NewController(runner, logger),
		runner:     runner,
		logger:     logging.NewComponentLogger(logger, "orchestrator"),
	}
}

// ApplyAll reconciles every capability concurrently and returns results in
// capability order. A rejected capability never blocks the others; the pass
// always runs to completion.
func (o *Orchestrator) ApplyAll(ctx context.Context, canonical prefs.Canonical) []Result {
	passID := uuid.NewString()
	o.logger.Info("reconciliation pass starting",
		logging.String(logging.FieldPassID, passID))

	results := make(map[string]Result, len(capabilityOrder))
	var mu sync.Mutex
	var wg sync.WaitGroup

	run := func(capability string, apply func(context.Context) Result) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := apply(ctx)
			result.Capability = capability
			mu.Lock()
			results[capability] = result
			mu.Unlock()
		}()
	}

	run(CapabilitySpectrum, func(ctx context.Context) Result {
		return o.applySpectrum(ctx, canonical)
	})
	run(CapabilityButtonsLEDs, func(ctx context.Context) Result {
		return o.applyButtonsLEDs(ctx, canonical)
	})
	run(CapabilityIR, func(ctx context.Context) Result {
		return o.applyIR(ctx, canonical)
	})
	run(CapabilitySafeShutdown, func(ctx context.Context) Result {
		return o.applySafeShutdown(ctx, canonical)
	})

	wg.Wait()

	ordered := make([]Result, 0, len(capabilityOrder))
	failures := 0
	for _, capability := range capabilityOrder {
		result := results[capability]
		if result.Err != nil {
			failures++
		}
		ordered = append(ordered, result)
	}
	o.logger.Info("reconciliation pass finished",
		logging.String(logging.FieldPassID, passID),
		logging.Int("failures", failures))
	return ordered
}

func (o *Orchestrator) applySpectrum(ctx context.Context, canonical prefs.Canonical) Result {
	result := Result{Desired: canonical.Display.Spectrum}
	outcome, err := o.controller.Apply(ctx, o.units.Spectrum, canonical.Display.Spectrum)
	result.Outcomes = append(result.Outcomes, outcome)
	result.Err = err
	return result
}

func (o *Orchestrator) applyButtonsLEDs(ctx context.Context, canonical prefs.Canonical) Result {
	result := Result{Desired: canonical.Controls.ButtonsLEDService}
	unit, found := o.ResolveButtonsUnit(ctx)
	if !found {
		result.Skipped = true
		result.SkipReason = "no buttons unit installed"
		o.logger.Warn("no buttons unit installed, skipping",
			logging.String(logging.FieldCapability, CapabilityButtonsLEDs))
		return result
	}
	outcome, err := o.controller.Apply(ctx, unit, canonical.Controls.ButtonsLEDService)
	result.Outcomes = append(result.Outcomes, outcome)
	result.Err = err
	return result
}

func (o *Orchestrator) applyIR(ctx context.Context, canonical prefs.Canonical) Result {
	result := Result{Desired: canonical.IR.Enabled}
	for _, unit := range o.units.IR {
		outcome, err := o.controller.Apply(ctx, unit, canonical.IR.Enabled)
		result.Outcomes = append(result.Outcomes, outcome)
		if err != nil && result.Err == nil {
			result.Err = err
		}
	}
	return result
}

func (o *Orchestrator) applySafeShutdown(ctx context.Context, canonical prefs.Canonical) Result {
	result := Result{Desired: canonical.Safety.SafeShutdown}
	installed := o.installedSafeShutdownUnits(ctx)
	if len(installed) == 0 {
		result.Skipped = true
		result.SkipReason = "no safe-shutdown unit installed"
		return result
	}
	for _, unit := range installed {
		outcome, err := o.controller.Apply(ctx, unit, canonical.Safety.SafeShutdown)
		result.Outcomes = append(result.Outcomes, outcome)
		if err != nil && result.Err == nil {
			result.Err = err
		}
	}
	return result
}

// ResolveButtonsUnit probes the configured candidate units and returns the
// first one whose unit file is actually loaded.
func (o *Orchestrator) ResolveButtonsUnit(ctx context.Context) (string, bool) {
	for _, candidate := range o.units.ButtonsCandidates {
		state, err := o.runner.LoadState(ctx, candidate)
		if err != nil {
			o.logger.Warn("unit probe failed",
				logging.String(logging.FieldUnit, candidate),
				logging.Error(err))
			continue
		}
		if state == "loaded" {
			return candidate, true
		}
	}
	return "", false
}

func (o *Orchestrator) installedSafeShutdownUnits(ctx context.Context) []string {
	var installed []string
	for _, candidate := range o.units.SafeShutdownCandidates {
		state, err := o.runner.LoadState(ctx, candidate)
		if err != nil || state != "loaded" {
			continue
		}
		installed = append(installed, candidate)
	}
	sort.Strings(installed)
	return installed
}

// UnitState pairs a unit name with its observed status.
type UnitState struct {
	Unit   string
	Status systemctl.UnitStatus
	Err    error
}

// Status reads the state of every managed unit without changing anything.
func (o *Orchestrator) Status(ctx context.Context) []UnitState {
	units := []string{o.units.Spectrum}
	units = append(units, o.units.IR...)
	if unit, found := o.ResolveButtonsUnit(ctx); found {
		units = append(units, unit)
	}
	units = append(units, o.installedSafeShutdownUnits(ctx)...)

	states := make([]UnitState, 0, len(units))
	for _, unit := range units {
		status, err := o.controller.Status(ctx, unit)
		states = append(states, UnitState{Unit: unit, Status: status, Err: err})
	}
	return states
}
