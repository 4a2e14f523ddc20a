package orchestrator_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"quadify/internal/config"
	"quadify/internal/orchestrator"
	"quadify/internal/prefs"
	"quadify/internal/systemctl"
)

// fakeSystemd tracks per-unit state and answers show queries from it.
// Commands listed in broken leave the unit untouched.
type fakeSystemd struct {
	mu     sync.Mutex
	loaded map[string]bool
	active map[string]bool
	onBoot map[string]bool
	broken map[string]bool
	calls  []string
}

func newFakeSystemd(loadedUnits ...string) *fakeSystemd {
	f := &fakeSystemd{
		loaded: make(map[string]bool),
		active: make(map[string]bool),
		onBoot: make(map[string]bool),
		broken: make(map[string]bool),
	}
	for _, unit := range loadedUnits {
		f.loaded[unit] = true
	}
	return f
}

func (f *fakeSystemd) Run(ctx context.Context, binary string, args []string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, binary+" "+strings.Join(args, " "))

	if binary == "journalctl" {
		return "journal lines", "", nil
	}

	switch args[0] {
	case "show":
		unit := args[1]
		loadState := "not-found"
		if f.loaded[unit] {
			loadState = "loaded"
		}
		if args[2] == "--property=LoadState" {
			return "LoadState=" + loadState + "\n", "", nil
		}
		activeState := "inactive"
		if f.active[unit] {
			activeState = "active"
		}
		fileState := "disabled"
		if f.onBoot[unit] {
			fileState = "enabled"
		}
		return fmt.Sprintf("ActiveState=%s\nUnitFileState=%s\nLoadState=%s\n",
			activeState, fileState, loadState), "", nil
	case "daemon-reload":
		return "", "", nil
	}

	unit := args[len(args)-1]
	if f.broken[unit] {
		return "", "job failed", fmt.Errorf("exit status 1")
	}
	switch args[0] {
	case "enable":
		f.onBoot[unit] = true
		for _, arg := range args {
			if arg == "--now" {
				f.active[unit] = true
			}
		}
	case "disable":
		f.onBoot[unit] = false
		for _, arg := range args {
			if arg == "--now" {
				f.active[unit] = false
			}
		}
	case "start":
		f.active[unit] = true
	case "stop":
		f.active[unit] = false
	}
	return "", "", nil
}

func testUnits() config.Units {
	return config.Units{
		Spectrum:               "cava.service",
		IR:                     []string{"lircd.service", "quadify-ir.service"},
		ButtonsCandidates:      []string{"quadify-buttonsleds.service", "buttonsleds.service"},
		SafeShutdownCandidates: []string{"quadify-safe-shutdown.service", "gpio-poweroff.service"},
	}
}

func newOrchestrator(fake *fakeSystemd) *orchestrator.Orchestrator {
	cfg := config.Systemctl{Binary: "systemctl", JournalBinary: "journalctl", JournalLines: 20}
	runner := systemctl.NewRunner(cfg, nil, systemctl.WithExecutor(fake))
	return orchestrator.New(testUnits(), runner, nil)
}

func enabledCanonical() prefs.Canonical {
	c := prefs.DefaultCanonical()
	c.Display.Spectrum = true
	c.Controls.ButtonsLEDService = true
	c.IR.Enabled = true
	c.IR.Profile = "default"
	c.Safety.SafeShutdown = true
	return c
}

func TestApplyAllConvergesEveryCapability(t *testing.T) {
	fake := newFakeSystemd(
		"cava.service", "lircd.service", "quadify-ir.service",
		"buttonsleds.service", "gpio-poweroff.service")
	orch := newOrchestrator(fake)

	results := orch.ApplyAll(context.Background(), enabledCanonical())
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	wantOrder := []string{
		orchestrator.CapabilitySpectrum,
		orchestrator.CapabilityButtonsLEDs,
		orchestrator.CapabilityIR,
		orchestrator.CapabilitySafeShutdown,
	}
	for i, result := range results {
		if result.Capability != wantOrder[i] {
			t.Fatalf("result %d capability %q, want %q", i, result.Capability, wantOrder[i])
		}
		if result.Err != nil {
			t.Errorf("capability %s failed: %v", result.Capability, result.Err)
		}
		if result.Skipped {
			t.Errorf("capability %s unexpectedly skipped: %s", result.Capability, result.SkipReason)
		}
	}
	if len(results[2].Outcomes) != 2 {
		t.Fatalf("ir capability must drive both units, got %+v", results[2].Outcomes)
	}
}

func TestApplyAllFailureDoesNotBlockOthers(t *testing.T) {
	fake := newFakeSystemd(
		"cava.service", "lircd.service", "quadify-ir.service",
		"buttonsleds.service", "gpio-poweroff.service")
	fake.broken["cava.service"] = true
	orch := newOrchestrator(fake)

	results := orch.ApplyAll(context.Background(), enabledCanonical())
	if results[0].Err == nil {
		t.Fatal("expected spectrum capability to fail")
	}
	for _, result := range results[1:] {
		if result.Err != nil {
			t.Errorf("capability %s should not be blocked: %v", result.Capability, result.Err)
		}
	}
}

func TestResolveButtonsUnitPrefersFirstLoaded(t *testing.T) {
	fake := newFakeSystemd("buttonsleds.service")
	orch := newOrchestrator(fake)

	unit, found := orch.ResolveButtonsUnit(context.Background())
	if !found || unit != "buttonsleds.service" {
		t.Fatalf("expected buttonsleds.service, got %q (found=%v)", unit, found)
	}
}

func TestButtonsSkippedWhenNoCandidateInstalled(t *testing.T) {
	fake := newFakeSystemd("cava.service", "lircd.service", "quadify-ir.service")
	orch := newOrchestrator(fake)

	results := orch.ApplyAll(context.Background(), enabledCanonical())
	buttons := results[1]
	if !buttons.Skipped || buttons.Err != nil {
		t.Fatalf("expected skip without error, got %+v", buttons)
	}
}

func TestSafeShutdownAbsentUnitsSilentlySkipped(t *testing.T) {
	fake := newFakeSystemd("cava.service", "lircd.service", "quadify-ir.service", "buttonsleds.service")
	orch := newOrchestrator(fake)

	results := orch.ApplyAll(context.Background(), enabledCanonical())
	safeShutdown := results[3]
	if !safeShutdown.Skipped || safeShutdown.Err != nil {
		t.Fatalf("expected skip without error, got %+v", safeShutdown)
	}
	for _, call := range fake.calls {
		if strings.Contains(call, "enable --now quadify-safe-shutdown.service") {
			t.Fatalf("absent unit must not be driven: %v", fake.calls)
		}
	}
}

func TestStatusListsManagedUnits(t *testing.T) {
	fake := newFakeSystemd("cava.service", "lircd.service", "quadify-ir.service", "buttonsleds.service")
	fake.active["cava.service"] = true
	fake.onBoot["cava.service"] = true
	orch := newOrchestrator(fake)

	states := orch.Status(context.Background())
	byUnit := make(map[string]orchestrator.UnitState, len(states))
	for _, state := range states {
		byUnit[state.Unit] = state
	}
	cava, ok := byUnit["cava.service"]
	if !ok || !cava.Status.Active() || !cava.Status.Enabled() {
		t.Fatalf("unexpected cava state: %+v", cava)
	}
	if _, ok := byUnit["buttonsleds.service"]; !ok {
		t.Fatalf("resolved buttons unit missing from status: %+v", states)
	}
}
