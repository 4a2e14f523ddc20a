package prefs

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical is the fully-defaulted nested view of user settings.
type Canonical struct {
	Display  Display
	Controls Controls
	IR       IR
	Safety   Safety
}

// Display holds screen and visualizer settings.
type Display struct {
	Spectrum       bool
	Screen         string
	Rotate         int
	OLEDBrightness int
}

// Controls holds physical button/LED settings.
type Controls struct {
	ButtonsLEDService bool
	// MCP23017Address is the I2C expander address as lowercase hex without
	// prefix ("20" for 0x20).
	MCP23017Address string
}

// IR holds infrared receiver settings.
type IR struct {
	Enabled bool
	Profile string
	GPIOBCM int
}

// Safety holds shutdown-related settings.
type Safety struct {
	SafeShutdown bool
	CleanMode    bool
}

// Truth carries the hardware-descriptor overrides. A nil field means the
// descriptor does not commit that value and stored preference stands.
type Truth struct {
	DisplayRotate   *int
	MCP23017Address *int
	IRGPIOPin       *int
}

const (
	// DefaultMCP23017Address is the expander address used when preference
	// and hardware are silent or malformed (decimal 32).
	DefaultMCP23017Address = "20"
	defaultScreen          = "modern"
	defaultOLEDBrightness  = 200
	defaultIRGPIOBCM       = 27
)

// DefaultCanonical returns the compiled defaults, the lowest precedence tier.
func DefaultCanonical() Canonical {
	return Canonical{
		Display: Display{
			Screen:         defaultScreen,
			OLEDBrightness: defaultOLEDBrightness,
		},
		Controls: Controls{
			MCP23017Address: DefaultMCP23017Address,
		},
		IR: IR{
			GPIOBCM: defaultIRGPIOBCM,
		},
	}
}

// BuildCanonical derives the canonical preference from the raw document and
// the hardware truth. Pure and deterministic; malformed input degrades to
// defaults, it never fails. Precedence, lowest to highest: compiled defaults,
// nested sections, legacy flat keys, hardware truth.
func BuildCanonical(doc Document, truth Truth) Canonical {
	c := DefaultCanonical()
	applyNested(&c, doc)
	applyLegacy(&c, doc)
	applyTruth(&c, truth)
	return c
}

func applyNested(c *Canonical, doc Document) {
	if display := doc.Section("display"); display != nil {
		if v, ok := boolValue(lookup(display, "spectrum")); ok {
			c.Display.Spectrum = v
		}
		if v, ok := stringValue(lookup(display, "screen")); ok {
			c.Display.Screen = CanonicalScreen(v, storedSubMode(doc))
		}
		if v, ok := intValue(lookup(display, "rotate")); ok {
			c.Display.Rotate = v
		}
		if v, ok := intValue(lookup(display, "oled_brightness")); ok {
			c.Display.OLEDBrightness = clampBrightness(v)
		}
	}
	if controls := doc.Section("controls"); controls != nil {
		if v, ok := boolValue(lookup(controls, "buttons_led_service")); ok {
			c.Controls.ButtonsLEDService = v
		}
		if v, ok := stringValue(lookup(controls, "mcp23017_address")); ok {
			c.Controls.MCP23017Address = NormalizeHex(v)
		}
	}
	if ir := doc.Section("ir"); ir != nil {
		if v, ok := boolValue(lookup(ir, "enabled")); ok {
			c.IR.Enabled = v
		}
		if v, ok := stringValue(lookup(ir, "profile")); ok {
			c.IR.Profile = strings.TrimSpace(v)
		}
		if v, ok := intValue(lookup(ir, "gpio_bcm")); ok {
			c.IR.GPIOBCM = v
		}
	}
	if safety := doc.Section("safety"); safety != nil {
		if v, ok := boolValue(lookup(safety, "safe_shutdown")); ok {
			c.Safety.SafeShutdown = v
		}
		if v, ok := boolValue(lookup(safety, "clean_mode")); ok {
			c.Safety.CleanMode = v
		}
	}
}

// applyLegacy lets flat keys written by pre-nested consumers override the
// nested sections.
func applyLegacy(c *Canonical, doc Document) {
	if v, ok := boolValue(lookup(doc, "cava_enabled")); ok {
		c.Display.Spectrum = v
	}
	if mode, ok := stringValue(lookup(doc, "display_mode")); ok {
		c.Display.Screen = LegacyToScreen(mode, storedSubMode(doc))
	}
	if v, ok := intValue(lookup(doc, "oled_brightness")); ok {
		c.Display.OLEDBrightness = clampBrightness(v)
	}
	if v, ok := stringValue(lookup(doc, "mcp23017_address")); ok {
		c.Controls.MCP23017Address = NormalizeHex(v)
	}
}

func applyTruth(c *Canonical, truth Truth) {
	if truth.DisplayRotate != nil {
		c.Display.Rotate = *truth.DisplayRotate
	}
	if truth.MCP23017Address != nil {
		c.Controls.MCP23017Address = HexFromInt(*truth.MCP23017Address)
	}
	if truth.IRGPIOPin != nil {
		c.IR.GPIOBCM = *truth.IRGPIOPin
	}
}

// StoredSubMode returns the previously stored spectrum sub-mode from a raw
// document, for callers resolving a bare "modern" screen.
func StoredSubMode(doc Document) string {
	return storedSubMode(doc)
}

// storedSubMode returns the previously stored spectrum sub-mode, preferring
// the legacy flat key over the nested section.
func storedSubMode(doc Document) string {
	if v, ok := stringValue(lookup(doc, "modern_spectrum_mode")); ok {
		return v
	}
	if display := doc.Section("display"); display != nil {
		if v, ok := stringValue(lookup(display, "spectrum_mode")); ok {
			return v
		}
	}
	return ""
}

func clampBrightness(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// ParseHex interprets an MCP23017 address string: optional 0x/0X prefix,
// case-insensitive, base-16. Malformed input falls back to the default
// address (decimal 32).
func ParseHex(s string) int {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	value, err := strconv.ParseInt(strings.ToLower(trimmed), 16, 32)
	if err != nil || value < 0 {
		return 0x20
	}
	return int(value)
}

// NormalizeHex canonicalizes an address string to lowercase hex without
// prefix, exact and reversible for valid input.
func NormalizeHex(s string) string {
	return HexFromInt(ParseHex(s))
}

// HexFromInt formats a numeric address (from hardware truth) as canonical
// hex without prefix.
func HexFromInt(n int) string {
	if n < 0 {
		return DefaultMCP23017Address
	}
	return fmt.Sprintf("%x", n)
}
