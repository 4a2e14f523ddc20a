package config

const (
	defaultPreferenceFile = "~/.config/quadify/preferences.json"
	defaultHardwareFile   = "~/.config/quadify/hardware.yml"
	defaultUIStoreFile    = "~/.config/quadify/ui_state.json"
	defaultBootOverlay    = "/boot/firmware/config.txt"
	defaultLogDir         = "~/.local/share/quadify/logs"

	defaultSpectrumUnit = "cava.service"

	defaultSystemctlBinary = "systemctl"
	defaultJournalBinary   = "journalctl"
	defaultCommandTimeout  = 30
	defaultJournalLines    = 20

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

func defaultIRUnits() []string {
	return []string{"lircd.service", "quadify-ir.service"}
}

func defaultButtonsCandidates() []string {
	return []string{"quadify-buttonsleds.service", "buttonsleds.service", "early-led8.service"}
}

func defaultSafeShutdownCandidates() []string {
	return []string{"quadify-safe-shutdown.service", "gpio-poweroff.service"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PreferenceFile: defaultPreferenceFile,
			HardwareFile:   defaultHardwareFile,
			UIStoreFile:    defaultUIStoreFile,
			BootOverlay:    defaultBootOverlay,
			LogDir:         defaultLogDir,
		},
		Units: Units{
			Spectrum:               defaultSpectrumUnit,
			IR:                     defaultIRUnits(),
			ButtonsCandidates:      defaultButtonsCandidates(),
			SafeShutdownCandidates: defaultSafeShutdownCandidates(),
		},
		Systemctl: Systemctl{
			Binary:         defaultSystemctlBinary,
			JournalBinary:  defaultJournalBinary,
			CommandTimeout: defaultCommandTimeout,
			JournalLines:   defaultJournalLines,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
