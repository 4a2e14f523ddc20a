package prefs

import (
	"math"
	"strconv"
	"strings"
)

// Document is the raw preference document: an arbitrary JSON-like map that
// may hold canonical nested sections, legacy flat keys, and unrelated
// third-party keys. It is never fully validated, only merged.
type Document map[string]any

// Unwrap resolves the value-may-be-wrapped access pattern: a stored value is
// either bare or an object carrying it under a "value" field.
func Unwrap(v any) any {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["value"]; ok {
			return inner
		}
	}
	return v
}

// Section returns the named nested section, or nil when absent or not a map.
func (d Document) Section(name string) map[string]any {
	if d == nil {
		return nil
	}
	section, _ := Unwrap(d[name]).(map[string]any)
	return section
}

// Clone returns a shallow copy; nested sections are copied one level deep so
// merges never mutate the source document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for key, value := range d {
		if m, ok := value.(map[string]any); ok {
			inner := make(map[string]any, len(m))
			for k, v := range m {
				inner[k] = v
			}
			out[key] = inner
			continue
		}
		out[key] = value
	}
	return out
}

func stringValue(v any, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	s, isString := Unwrap(v).(string)
	return s, isString
}

func boolValue(v any, ok bool) (bool, bool) {
	if !ok {
		return false, false
	}
	switch val := Unwrap(v).(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		}
	}
	return false, false
}

func intValue(v any, ok bool) (int, bool) {
	if !ok {
		return 0, false
	}
	switch val := Unwrap(v).(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val != math.Trunc(val) {
			return 0, false
		}
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

func lookup(m map[string]any, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}
