package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	"quadify/internal/config"
	"quadify/internal/hardware"
	"quadify/internal/logging"
	"quadify/internal/prefs"
	"quadify/internal/services"
	"quadify/internal/testsupport"
	"quadify/internal/uistore"
)

func newTestEnv(t *testing.T) (*settingsEnv, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	logger := logging.NewNop()
	env := &settingsEnv{
		prefs:    prefs.NewStore(cfg.Paths.PreferenceFile, logger),
		hardware: hardware.NewAdapter(cfg.Paths.HardwareFile, logger),
		overlay:  hardware.NewOverlay(cfg.Paths.BootOverlay, logger),
		ui:       uistore.Open(cfg.Paths.UIStoreFile, logger),
		logger:   logger,
	}
	return env, cfg
}

func TestApplySettingScreenDefaultsToBars(t *testing.T) {
	env, cfg := newTestEnv(t)

	c, err := env.applySetting("display.screen", "modern")
	if err != nil {
		t.Fatalf("applySetting failed: %v", err)
	}
	if c.Display.Screen != "modern-bars" {
		t.Fatalf("bare modern with no prior sub-mode must select bars, got %q", c.Display.Screen)
	}

	doc := env.prefs.Load()
	if mode, _ := doc["display_mode"]; mode != "modern" {
		t.Fatalf("legacy mirror display_mode = %v", mode)
	}
	if sub, _ := doc["modern_spectrum_mode"]; sub != "bars" {
		t.Fatalf("legacy mirror modern_spectrum_mode = %v", sub)
	}

	ui := uistore.Open(cfg.Paths.UIStoreFile, logging.NewNop())
	if v, _ := ui.Get("display.screen"); v != "modern-bars" {
		t.Fatalf("ui store screen = %v", v)
	}
}

func TestApplySettingScreenKeepsStoredSubMode(t *testing.T) {
	env, _ := newTestEnv(t)

	if _, err := env.applySetting("display.screen", "modern-osci"); err != nil {
		t.Fatalf("applySetting failed: %v", err)
	}
	c, err := env.applySetting("display.screen", "modern")
	if err != nil {
		t.Fatalf("applySetting failed: %v", err)
	}
	if c.Display.Screen != "modern-osci" {
		t.Fatalf("bare modern must keep the stored sub-mode, got %q", c.Display.Screen)
	}
}

func TestApplySettingIREnableRequiresProfile(t *testing.T) {
	env, _ := newTestEnv(t)

	_, err := env.applySetting("ir.enabled", "true")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := env.applySetting("ir.profile", "justboom"); err != nil {
		t.Fatalf("set profile failed: %v", err)
	}
	c, err := env.applySetting("ir.enabled", "true")
	if err != nil {
		t.Fatalf("enable after profile failed: %v", err)
	}
	if !c.IR.Enabled || c.IR.Profile != "justboom" {
		t.Fatalf("unexpected ir state: %+v", c.IR)
	}
}

func TestApplySettingIRPinCommitsDescriptorAndOverlay(t *testing.T) {
	env, cfg := newTestEnv(t)

	c, err := env.applySetting("ir.gpio_bcm", "17")
	if err != nil {
		t.Fatalf("applySetting failed: %v", err)
	}
	if c.IR.GPIOBCM != 17 {
		t.Fatalf("canonical pin = %d, want 17", c.IR.GPIOBCM)
	}

	truth := env.hardware.Truth()
	if truth.IRGPIOPin == nil || *truth.IRGPIOPin != 17 {
		t.Fatalf("descriptor pin = %+v", truth)
	}

	overlay, err := os.ReadFile(cfg.Paths.BootOverlay)
	if err != nil {
		t.Fatalf("read overlay: %v", err)
	}
	if !strings.Contains(string(overlay), "dtoverlay=gpio-ir,gpio_pin=17") {
		t.Fatalf("overlay missing pin line:\n%s", overlay)
	}
}

func TestApplySettingAddressNormalizedThroughDescriptor(t *testing.T) {
	env, _ := newTestEnv(t)

	c, err := env.applySetting("controls.mcp23017_address", "0x3F")
	if err != nil {
		t.Fatalf("applySetting failed: %v", err)
	}
	if c.Controls.MCP23017Address != "3f" {
		t.Fatalf("address = %q, want 3f", c.Controls.MCP23017Address)
	}
}

func TestApplySettingRejectsUnknownKeyAndBadValues(t *testing.T) {
	env, _ := newTestEnv(t)

	if _, err := env.applySetting("display.nonsense", "1"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("unknown key must fail validation, got %v", err)
	}
	if _, err := env.applySetting("display.spectrum", "maybe"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("bad boolean must fail validation, got %v", err)
	}
	if _, err := env.applySetting("display.oled_brightness", "bright"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("bad integer must fail validation, got %v", err)
	}
}

func TestApplySettingBrightnessClamped(t *testing.T) {
	env, _ := newTestEnv(t)

	c, err := env.applySetting("display.oled_brightness", "999")
	if err != nil {
		t.Fatalf("applySetting failed: %v", err)
	}
	if c.Display.OLEDBrightness != 255 {
		t.Fatalf("brightness = %d, want 255", c.Display.OLEDBrightness)
	}
}
