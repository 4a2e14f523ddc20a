// Package logging constructs the process-wide slog logger and provides
// attribute helpers shared by every component. Output is either a compact
// console format or JSON, selected by configuration.
package logging
