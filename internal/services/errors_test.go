package services_test

import (
	"errors"
	"testing"

	"quadify/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "systemctl", "enable", "cava.service", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	want := "external tool error: systemctl: enable: cava.service: exit status 1"
	if err.Error() != want {
		t.Fatalf("unexpected message: got %q want %q", err.Error(), want)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestUserFacing(t *testing.T) {
	if !services.UserFacing(services.Wrap(services.ErrValidation, "settings", "set", "profile required", nil)) {
		t.Fatal("validation errors should be user facing")
	}
	if services.UserFacing(services.Wrap(services.ErrExternalTool, "systemctl", "start", "", nil)) {
		t.Fatal("external tool errors should not be user facing")
	}
}
