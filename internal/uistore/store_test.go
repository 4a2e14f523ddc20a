package uistore_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"quadify/internal/prefs"
	"quadify/internal/uistore"
)

func TestOpenUnwrapsWrappedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui_state.json")
	seed := `{
		"cava_enabled": {"value": true},
		"display_mode": "modern",
		"oled_brightness": 120
	}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("seed ui store: %v", err)
	}

	store := uistore.Open(path, nil)
	v, ok := store.Get("cava_enabled")
	if !ok || v != true {
		t.Fatalf("expected unwrapped true, got %v (ok=%v)", v, ok)
	}
	if v, _ := store.Get("display_mode"); v != "modern" {
		t.Fatalf("bare values must pass through, got %v", v)
	}
}

func TestSetUnwrapsAndSavePersistsBareValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui_state.json")
	store := uistore.Open(path, nil)
	store.Set("ir.enabled", map[string]any{"value": false})
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("parse store: %v", err)
	}
	if raw["ir.enabled"] != false {
		t.Fatalf("expected bare false on disk, got %v", raw["ir.enabled"])
	}
}

func TestOpenCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui_state.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt store: %v", err)
	}
	store := uistore.Open(path, nil)
	if keys := store.Keys(); len(keys) != 0 {
		t.Fatalf("expected empty store, got keys %v", keys)
	}
}

func TestMirrorWritesCanonicalAndLegacyAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui_state.json")
	store := uistore.Open(path, nil)

	c := prefs.DefaultCanonical()
	c.Display.Spectrum = true
	c.Display.Screen = "modern-osci"
	c.Controls.ButtonsLEDService = true

	if err := uistore.Mirror(store, c, ""); err != nil {
		t.Fatalf("Mirror failed: %v", err)
	}

	reloaded := uistore.Open(path, nil)
	checks := map[string]any{
		"display.spectrum":             true,
		"display.screen":               "modern-osci",
		"cava_enabled":                 true,
		"buttonsleds_enabled":          true,
		"controls.buttons_led_service": true,
		"display_mode":                 "modern",
		"modern_spectrum_mode":         "scope",
		"mcp23017_address":             "20",
	}
	for key, want := range checks {
		got, ok := reloaded.Get(key)
		if !ok {
			t.Errorf("key %q missing after mirror", key)
			continue
		}
		switch want := want.(type) {
		case int:
			if gotNum, isNum := got.(float64); !isNum || int(gotNum) != want {
				t.Errorf("key %q = %v, want %d", key, got, want)
			}
		default:
			if got != want {
				t.Errorf("key %q = %v, want %v", key, got, want)
			}
		}
	}
}

func TestMirrorOverwritesStaleKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui_state.json")
	store := uistore.Open(path, nil)
	store.Set("cava_enabled", true)
	store.Set("modern_spectrum_mode", "scope")

	c := prefs.DefaultCanonical()
	c.Display.Screen = "original"
	if err := uistore.Mirror(store, c, ""); err != nil {
		t.Fatalf("Mirror failed: %v", err)
	}

	if v, _ := store.Get("cava_enabled"); v != false {
		t.Fatalf("expected cava_enabled overwritten to false, got %v", v)
	}
	if v, _ := store.Get("modern_spectrum_mode"); v != "" {
		t.Fatalf("expected sub-mode cleared for non-modern screen, got %v", v)
	}
}
