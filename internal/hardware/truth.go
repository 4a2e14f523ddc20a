package hardware

import (
	"strconv"
	"strings"

	"quadify/internal/prefs"
)

// Descriptor field names. Exactly these three fields act as hardware truth.
const (
	FieldDisplayRotate   = "display_rotate"
	FieldMCP23017Address = "mcp23017_address"
	FieldIRGPIOPin       = "ir_gpio_pin"
)

// TruthFromYAML extracts the hardware overrides from a parsed descriptor.
// Each field is lenient about its encoding; malformed values degrade to
// "no override" rather than failing.
func TruthFromYAML(m map[string]any) prefs.Truth {
	var truth prefs.Truth
	if v, ok := m[FieldDisplayRotate]; ok {
		if rotate, ok := asInt(v); ok {
			truth.DisplayRotate = &rotate
		}
	}
	if v, ok := m[FieldMCP23017Address]; ok {
		if addr, ok := asAddress(v); ok {
			truth.MCP23017Address = &addr
		}
	}
	if v, ok := m[FieldIRGPIOPin]; ok {
		if pin, ok := asInt(v); ok {
			truth.IRGPIOPin = &pin
		}
	}
	return truth
}

func asInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// asAddress accepts the expander address as a plain integer or a hex string
// with or without 0x prefix.
func asAddress(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, false
		}
		return prefs.ParseHex(trimmed), true
	}
	return 0, false
}
