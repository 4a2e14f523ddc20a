package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"quadify/internal/hardware"
	"quadify/internal/prefs"
	"quadify/internal/services"
	"quadify/internal/uistore"
)

// settingsEnv bundles the stores a settings operation touches.
type settingsEnv struct {
	prefs    *prefs.Store
	hardware *hardware.Adapter
	overlay  *hardware.Overlay
	ui       *uistore.Store
	logger   *slog.Logger
}

func newSettingsEnv(ctx *commandContext) (*settingsEnv, error) {
	store, err := ctx.prefStore()
	if err != nil {
		return nil, err
	}
	adapter, err := ctx.hardwareAdapter()
	if err != nil {
		return nil, err
	}
	overlay, err := ctx.bootOverlay()
	if err != nil {
		return nil, err
	}
	ui, err := ctx.uiStore()
	if err != nil {
		return nil, err
	}
	return &settingsEnv{
		prefs:    store,
		hardware: adapter,
		overlay:  overlay,
		ui:       ui,
		logger:   ctx.ensureLogger(),
	}, nil
}

// current derives the canonical preference from the raw document and the
// hardware descriptor.
func (e *settingsEnv) current() (prefs.Canonical, prefs.Document) {
	doc := e.prefs.Load()
	return prefs.BuildCanonical(doc, e.hardware.Truth()), doc
}

// persist writes the canonical preference to the raw store and mirrors it
// into the UI store.
func (e *settingsEnv) persist(c prefs.Canonical, priorSub string) error {
	if _, err := e.prefs.SaveCanonical(c); err != nil {
		return err
	}
	return uistore.Mirror(e.ui, c, priorSub)
}

// applySetting updates one settings key and persists the result. Keys
// backed by the hardware descriptor are committed there first; the
// descriptor then overrides whatever the preference file says.
func (e *settingsEnv) applySetting(key, value string) (prefs.Canonical, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	value = strings.TrimSpace(value)

	switch key {
	case "display.rotate", "controls.mcp23017_address", "ir.gpio_bcm":
		if err := e.commitHardware(key, value); err != nil {
			return prefs.Canonical{}, err
		}
		c, doc := e.current()
		return c, e.persist(c, prefs.StoredSubMode(doc))
	}

	c, doc := e.current()
	priorSub := prefs.StoredSubMode(doc)

	switch key {
	case "display.spectrum":
		v, err := parseBoolValue(key, value)
		if err != nil {
			return prefs.Canonical{}, err
		}
		c.Display.Spectrum = v
	case "display.screen":
		c.Display.Screen = prefs.SelectScreen(value, priorSub)
	case "display.oled_brightness":
		v, err := parseIntValue(key, value)
		if err != nil {
			return prefs.Canonical{}, err
		}
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		c.Display.OLEDBrightness = v
	case "controls.buttons_led_service":
		v, err := parseBoolValue(key, value)
		if err != nil {
			return prefs.Canonical{}, err
		}
		c.Controls.ButtonsLEDService = v
	case "ir.enabled":
		v, err := parseBoolValue(key, value)
		if err != nil {
			return prefs.Canonical{}, err
		}
		if v && c.IR.Profile == "" {
			return prefs.Canonical{}, services.Wrap(services.ErrValidation, "settings", "set", key,
				errors.New("ir profile must be set before enabling the receiver"))
		}
		c.IR.Enabled = v
	case "ir.profile":
		c.IR.Profile = value
	case "safety.safe_shutdown":
		v, err := parseBoolValue(key, value)
		if err != nil {
			return prefs.Canonical{}, err
		}
		c.Safety.SafeShutdown = v
	case "safety.clean_mode":
		v, err := parseBoolValue(key, value)
		if err != nil {
			return prefs.Canonical{}, err
		}
		c.Safety.CleanMode = v
	default:
		return prefs.Canonical{}, services.Wrap(services.ErrValidation, "settings", "set", key,
			errors.New("unknown settings key"))
	}

	return c, e.persist(c, priorSub)
}

// commitHardware writes a hardware-backed value into the descriptor. The IR
// pin is also committed to the boot overlay so the kernel picks it up on the
// next boot.
func (e *settingsEnv) commitHardware(key, value string) error {
	switch key {
	case "display.rotate":
		v, err := parseIntValue(key, value)
		if err != nil {
			return err
		}
		return e.hardware.SetField(hardware.FieldDisplayRotate, v)
	case "controls.mcp23017_address":
		return e.hardware.SetField(hardware.FieldMCP23017Address, prefs.NormalizeHex(value))
	case "ir.gpio_bcm":
		v, err := parseIntValue(key, value)
		if err != nil {
			return err
		}
		if err := e.hardware.SetField(hardware.FieldIRGPIOPin, v); err != nil {
			return err
		}
		return e.overlay.CommitIRPin(v)
	}
	return nil
}

func parseBoolValue(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, services.Wrap(services.ErrValidation, "settings", "set", key,
		fmt.Errorf("expected a boolean, got %q", value))
}

func parseIntValue(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "settings", "set", key,
			fmt.Errorf("expected an integer, got %q", value))
	}
	return v, nil
}

// managedKeys are the top-level preference keys owned by the canonical
// model and its legacy mirror.
var managedKeys = map[string]bool{
	"display": true, "controls": true, "ir": true, "safety": true,
	"cava_enabled": true, "display_mode": true, "modern_spectrum_mode": true,
	"oled_brightness": true, "mcp23017_address": true,
}

// passthroughRows lists raw document keys this tool does not manage, so
// `settings show` surfaces what other consumers have stored.
func passthroughRows(doc prefs.Document) [][]string {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		if !managedKeys[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, fmt.Sprintf("%v", doc[key])})
	}
	return rows
}

// settingsRows flattens the canonical preference for display.
func settingsRows(c prefs.Canonical) [][]string {
	return [][]string{
		{"display.spectrum", yesNo(c.Display.Spectrum)},
		{"display.screen", c.Display.Screen},
		{"display.rotate", strconv.Itoa(c.Display.Rotate)},
		{"display.oled_brightness", strconv.Itoa(c.Display.OLEDBrightness)},
		{"controls.buttons_led_service", yesNo(c.Controls.ButtonsLEDService)},
		{"controls.mcp23017_address", c.Controls.MCP23017Address},
		{"ir.enabled", yesNo(c.IR.Enabled)},
		{"ir.profile", c.IR.Profile},
		{"ir.gpio_bcm", strconv.Itoa(c.IR.GPIOBCM)},
		{"safety.safe_shutdown", yesNo(c.Safety.SafeShutdown)},
		{"safety.clean_mode", yesNo(c.Safety.CleanMode)},
	}
}
