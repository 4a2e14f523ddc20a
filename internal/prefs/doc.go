// Package prefs reconciles the user preference document across its four
// representations: the raw on-disk JSON document, the canonical nested
// model, the legacy flat mirror keys, and the hardware-truth overrides.
//
// BuildCanonical is pure and never fails; persistence is atomic and keeps
// unknown top-level keys intact.
package prefs
