package systemctl

import "strings"

// UnitStatus holds the properties read back from systemctl show.
type UnitStatus struct {
	ActiveState    string
	SubState       string
	UnitFileState  string
	FragmentPath   string
	ExecMainStatus string
	Result         string
}

// showProperties lists what we ask systemctl show for.
var showProperties = []string{
	"ActiveState",
	"SubState",
	"UnitFileState",
	"FragmentPath",
	"ExecMainStatus",
	"Result",
	"LoadState",
}

// ParseShow parses KEY=VALUE lines from systemctl show output.
func ParseShow(output string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		props[key] = value
	}
	return props
}

func statusFromProperties(props map[string]string) UnitStatus {
	return UnitStatus{
		ActiveState:    props["ActiveState"],
		SubState:       props["SubState"],
		UnitFileState:  props["UnitFileState"],
		FragmentPath:   props["FragmentPath"],
		ExecMainStatus: props["ExecMainStatus"],
		Result:         props["Result"],
	}
}

// Active reports whether the unit is running or on its way up.
func (s UnitStatus) Active() bool {
	switch s.ActiveState {
	case "active", "activating":
		return true
	}
	return false
}

// Enabled reports whether the unit starts at boot. Static and linked units
// have no enablement of their own and count as enabled.
func (s UnitStatus) Enabled() bool {
	switch s.UnitFileState {
	case "enabled", "enabled-runtime", "static", "linked", "linked-runtime":
		return true
	}
	return false
}
