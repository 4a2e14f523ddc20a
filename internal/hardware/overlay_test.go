package hardware_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quadify/internal/hardware"
)

func TestCommitIRPinReplacesExistingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")
	initial := strings.Join([]string{
		"dtparam=audio=on",
		"dtoverlay=gpio-ir,gpio_pin=18",
		"dtoverlay=vc4-kms-v3d",
		"dtoverlay=gpio-ir,gpio_pin=22",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatalf("seed config.txt: %v", err)
	}

	overlay := hardware.NewOverlay(path, nil)
	if err := overlay.CommitIRPin(27); err != nil {
		t.Fatalf("CommitIRPin failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config.txt: %v", err)
	}
	content := string(data)
	if strings.Count(content, "dtoverlay=gpio-ir") != 1 {
		t.Fatalf("expected exactly one gpio-ir line:\n%s", content)
	}
	if !strings.Contains(content, "dtoverlay=gpio-ir,gpio_pin=27") {
		t.Fatalf("expected replacement line for pin 27:\n%s", content)
	}
	if !strings.Contains(content, "dtparam=audio=on") || !strings.Contains(content, "dtoverlay=vc4-kms-v3d") {
		t.Fatalf("unrelated lines must survive:\n%s", content)
	}
}

func TestCommitIRPinIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")
	overlay := hardware.NewOverlay(path, nil)

	if err := overlay.CommitIRPin(17); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read after first commit: %v", err)
	}
	if err := overlay.CommitIRPin(17); err != nil {
		t.Fatalf("second commit: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read after second commit: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("repeated commit changed file:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
