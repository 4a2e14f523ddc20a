// Package config loads and validates the application-level configuration:
// where the preference document, hardware descriptor, UI store, and boot
// overlay live, which systemd units back each managed capability, and how
// the systemctl boundary and logging behave.
package config
