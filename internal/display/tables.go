// Package display renders styled CLI/TUI output (spec §6.2): device and
// key tables, the debug-events log line format, and the live engine
// monitor. It is the teacher's lipgloss styling convention
// (internal/tui/theme.go) generalized away from recording/transcription
// badges toward this program's own domain.
package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prime-run/evremap/internal/device"
	"github.com/prime-run/evremap/internal/keycode"
)

// DeviceTable renders the `list-devices` output (spec §6.2): one row per
// enumerated device with Name/Path/Phys columns.
func DeviceTable(infos []device.Info, theme Theme) string {
	st := buildStyles(theme)
	var b strings.Builder
	b.WriteString(st.header.Render(fmt.Sprintf("%-36s %-22s %s", "NAME", "PATH", "PHYS")))
	b.WriteString("\n")
	for _, info := range infos {
		name, path, phys := info.Name, info.Path, info.Phys
		if phys == "" {
			phys = "-"
		}
		b.WriteString(fmt.Sprintf("%-36s %-22s %s\n", st.body.Render(name), path, st.dim.Render(phys)))
	}
	if len(infos) == 0 {
		b.WriteString(st.dim.Render("(no devices found)\n"))
	}
	return b.String()
}

// KeyTable renders the `list-keys` output (spec §6.2), optionally
// filtered to names containing filter (case-insensitive), sorted for
// stable output — the raw Names() table is unsorted map iteration.
func KeyTable(filter string, theme Theme) string {
	st := buildStyles(theme)
	names := keycode.Names()
	sort.Strings(names)

	filter = strings.ToUpper(strings.TrimSpace(filter))
	var b strings.Builder
	count := 0
	for _, name := range names {
		if filter != "" && !strings.Contains(name, filter) {
			continue
		}
		b.WriteString(st.body.Render(name))
		b.WriteString("\n")
		count++
	}
	if count == 0 {
		b.WriteString(st.dim.Render("(no keys match filter)\n"))
	}
	return b.String()
}
