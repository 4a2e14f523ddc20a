package prefs

import "strings"

// The spectrum sub-mode has two spellings: "osci" in UI-facing screen names
// ("modern-osci") and "scope" in the on-disk legacy mirror. The translation
// is a fixed bijection on the known set.

func normalizeSubMode(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "osci", "scope":
		return "scope"
	case "bars":
		return "bars"
	case "dots":
		return "dots"
	default:
		return ""
	}
}

func uiSubMode(disk string) string {
	if disk == "scope" {
		return "osci"
	}
	return disk
}

// CanonicalScreen normalizes a screen value read from storage into the
// canonical UI spelling. Bare "modern" resolves against the previously
// stored sub-mode when one exists; unrecognized or empty input degrades to
// "modern". Never fails.
func CanonicalScreen(input, priorSub string) string {
	trimmed := strings.TrimSpace(input)
	switch strings.ToLower(trimmed) {
	case "modern-bars":
		return "modern-bars"
	case "modern-dots":
		return "modern-dots"
	case "modern-osci", "modern-scope":
		return "modern-osci"
	case "modern":
		if sub := normalizeSubMode(priorSub); sub != "" {
			return "modern-" + uiSubMode(sub)
		}
		return "modern"
	case "":
		return "modern"
	default:
		return trimmed
	}
}

// SelectScreen normalizes a screen value chosen at the settings boundary.
// Unlike CanonicalScreen, a bare "modern" with no stored sub-mode selects
// the default "bars" visualization.
func SelectScreen(input, priorSub string) string {
	screen := CanonicalScreen(input, priorSub)
	if screen == "modern" {
		return "modern-bars"
	}
	return screen
}

// ScreenLegacy is the flat legacy pair derived from a canonical screen.
// SpectrumMode empty means the key is absent/cleared.
type ScreenLegacy struct {
	DisplayMode  string
	SpectrumMode string
}

// ScreenToLegacy maps a canonical screen to the legacy display_mode /
// modern_spectrum_mode pair, carrying the previously stored sub-mode
// through for bare "modern".
func ScreenToLegacy(screen, priorSub string) ScreenLegacy {
	switch CanonicalScreen(screen, priorSub) {
	case "modern-bars":
		return ScreenLegacy{DisplayMode: "modern", SpectrumMode: "bars"}
	case "modern-dots":
		return ScreenLegacy{DisplayMode: "modern", SpectrumMode: "dots"}
	case "modern-osci":
		return ScreenLegacy{DisplayMode: "modern", SpectrumMode: "scope"}
	case "modern":
		return ScreenLegacy{DisplayMode: "modern"}
	default:
		return ScreenLegacy{DisplayMode: strings.TrimSpace(screen)}
	}
}

// LegacyToScreen reconstructs the canonical screen from the legacy pair.
// Inverse of ScreenToLegacy on the known set.
func LegacyToScreen(displayMode, spectrumMode string) string {
	mode := strings.TrimSpace(displayMode)
	if strings.ToLower(mode) == "modern" {
		if sub := normalizeSubMode(spectrumMode); sub != "" {
			return "modern-" + uiSubMode(sub)
		}
		return "modern"
	}
	if mode == "" {
		return "modern"
	}
	return mode
}

// ScreenToDisk converts the canonical UI spelling to the single on-disk
// spelling stored in the nested section.
func ScreenToDisk(screen string) string {
	if screen == "modern-osci" {
		return "modern-scope"
	}
	return screen
}

// MirrorSet derives the flat legacy keys from a canonical preference, for
// consumers unaware of the nested schema. Deriving twice from the same
// canonical value yields identical maps.
func MirrorSet(c Canonical, priorSub string) map[string]any {
	legacy := ScreenToLegacy(c.Display.Screen, priorSub)
	mirror := map[string]any{
		"cava_enabled":     c.Display.Spectrum,
		"display_mode":     legacy.DisplayMode,
		"oled_brightness":  c.Display.OLEDBrightness,
		"mcp23017_address": c.Controls.MCP23017Address,
	}
	if legacy.SpectrumMode != "" {
		mirror["modern_spectrum_mode"] = legacy.SpectrumMode
	}
	return mirror
}
