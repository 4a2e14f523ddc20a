package prefs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"quadify/internal/prefs"
)

func newTestStore(t *testing.T) *prefs.Store {
	t.Helper()
	return prefs.NewStore(filepath.Join(t.TempDir(), "preferences.json"), nil)
}

func TestLoadMissingFileReturnsEmptyDocument(t *testing.T) {
	store := newTestStore(t)
	doc := store.Load()
	if doc == nil || len(doc) != 0 {
		t.Fatalf("expected empty document, got %v", doc)
	}
}

func TestLoadCorruptFileReturnsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	store := prefs.NewStore(path, nil)
	if doc := store.Load(); len(doc) != 0 {
		t.Fatalf("expected empty document for corrupt file, got %v", doc)
	}
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "preferences.json")
	store := prefs.NewStore(path, nil)
	if err := store.Save(prefs.Document{"a": "b"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("saved file not valid json: %v", err)
	}
	if doc["a"] != "b" {
		t.Fatalf("unexpected content: %v", doc)
	}
}

func TestSaveCanonicalCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "preferences.json")
	store := prefs.NewStore(path, nil)
	if _, err := store.SaveCanonical(prefs.DefaultCanonical()); err != nil {
		t.Fatalf("SaveCanonical into a fresh path failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("preference file not created: %v", err)
	}
}

func TestSaveCanonicalRoundTrip(t *testing.T) {
	store := newTestStore(t)
	raw := prefs.Document{
		"volumio_theme": "dark",
		"display":       map[string]any{"screen": "modern-scope", "spectrum": true},
	}
	if err := store.Save(raw); err != nil {
		t.Fatalf("seed raw document: %v", err)
	}

	canonical := prefs.BuildCanonical(store.Load(), prefs.Truth{})
	if _, err := store.SaveCanonical(canonical); err != nil {
		t.Fatalf("SaveCanonical failed: %v", err)
	}

	reloaded := prefs.BuildCanonical(store.Load(), prefs.Truth{})
	if !reflect.DeepEqual(canonical, reloaded) {
		t.Fatalf("round trip changed canonical value:\nbefore %+v\nafter  %+v", canonical, reloaded)
	}

	doc := store.Load()
	if doc["volumio_theme"] != "dark" {
		t.Fatalf("unknown top-level key lost: %v", doc)
	}
	if doc["display_mode"] != "modern" {
		t.Fatalf("expected legacy mirror display_mode, got %v", doc["display_mode"])
	}
	if doc["modern_spectrum_mode"] != "scope" {
		t.Fatalf("expected on-disk sub-mode scope, got %v", doc["modern_spectrum_mode"])
	}
	if doc["cava_enabled"] != true {
		t.Fatalf("expected cava_enabled mirror true, got %v", doc["cava_enabled"])
	}
}

func TestSaveCanonicalDefaultScreenIsStable(t *testing.T) {
	store := newTestStore(t)
	canonical := prefs.BuildCanonical(prefs.Document{}, prefs.Truth{})
	if _, err := store.SaveCanonical(canonical); err != nil {
		t.Fatalf("SaveCanonical failed: %v", err)
	}
	reloaded := prefs.BuildCanonical(store.Load(), prefs.Truth{})
	if !reflect.DeepEqual(canonical, reloaded) {
		t.Fatalf("default round trip drifted:\nbefore %+v\nafter  %+v", canonical, reloaded)
	}
}

func TestSaveCanonicalClearsSubModeForOtherScreens(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(prefs.Document{"modern_spectrum_mode": "scope"}); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	canonical := prefs.DefaultCanonical()
	canonical.Display.Screen = "original"
	merged, err := store.SaveCanonical(canonical)
	if err != nil {
		t.Fatalf("SaveCanonical failed: %v", err)
	}
	if _, ok := merged["modern_spectrum_mode"]; ok {
		t.Fatalf("sub-mode should be cleared for non-modern screens: %v", merged)
	}
}

func TestMergeCanonicalDoesNotMutateUnknownKeys(t *testing.T) {
	doc := prefs.Document{"plugin_x": map[string]any{"keep": 1}}
	merged := prefs.MergeCanonical(doc.Clone(), prefs.DefaultCanonical())
	inner, ok := merged["plugin_x"].(map[string]any)
	if !ok {
		t.Fatalf("unknown nested key lost: %v", merged)
	}
	if inner["keep"] != 1 {
		t.Fatalf("unknown nested value changed: %v", inner)
	}
}
