// Package uistore holds the UI-facing key/value store and the projection of
// the canonical preference into it. Wrapped values ({"value": x}) are
// normalized to bare values at load time so readers never see the wrapper.
package uistore
