package uistore

import "quadify/internal/prefs"

// Mirror projects the canonical preference into the UI store: a full
// overwrite of every UI-facing key, not a partial patch. Each renamed
// canonical boolean also gets its legacy alias so older UI and automation
// keep working. priorSub is the previously stored spectrum sub-mode used to
// resolve a bare "modern" screen.
func Mirror(store *Store, c prefs.Canonical, priorSub string) error {
	legacy := prefs.ScreenToLegacy(c.Display.Screen, priorSub)

	store.Set("display.spectrum", c.Display.Spectrum)
	store.Set("display.screen", c.Display.Screen)
	store.Set("display.rotate", c.Display.Rotate)
	store.Set("display.oled_brightness", c.Display.OLEDBrightness)
	store.Set("controls.buttons_led_service", c.Controls.ButtonsLEDService)
	store.Set("controls.mcp23017_address", c.Controls.MCP23017Address)
	store.Set("ir.enabled", c.IR.Enabled)
	store.Set("ir.profile", c.IR.Profile)
	store.Set("ir.gpio_bcm", c.IR.GPIOBCM)
	store.Set("safety.safe_shutdown", c.Safety.SafeShutdown)
	store.Set("safety.clean_mode", c.Safety.CleanMode)

	// Legacy aliases for consumers predating the nested names.
	store.Set("cava_enabled", c.Display.Spectrum)
	store.Set("buttonsleds_enabled", c.Controls.ButtonsLEDService)
	store.Set("ir_enabled", c.IR.Enabled)
	store.Set("safe_shutdown", c.Safety.SafeShutdown)
	store.Set("display_mode", legacy.DisplayMode)
	store.Set("modern_spectrum_mode", legacy.SpectrumMode)
	store.Set("oled_brightness", c.Display.OLEDBrightness)
	store.Set("mcp23017_address", c.Controls.MCP23017Address)

	return store.Save()
}
