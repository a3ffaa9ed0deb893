package display

import (
	"fmt"

	"github.com/prime-run/evremap/internal/device"
)

// valueName renders an event's Value field the way `debug-events` prints
// it (spec §6.2): press/release/repeat, or "value=N" for any other
// value. Passthrough (non-key) events are rendered by EventLine itself.
func valueName(v int) string {
	switch v {
	case device.ValuePress:
		return "press"
	case device.ValueRelease:
		return "release"
	case device.ValueRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("value=%d", v)
	}
}

// EventLine renders one raw input event for `debug-events`, colored by
// press/release/repeat the way the monitor colors held/emitted keys.
func EventLine(ev device.Event, theme Theme) string {
	st := buildStyles(theme)
	if !ev.IsKey() {
		return st.dim.Render(fmt.Sprintf("[passthrough] type=%d code=%d value=%d", ev.Type, ev.Code, ev.Value))
	}

	style := st.body
	switch ev.Value {
	case device.ValuePress:
		style = st.held
	case device.ValueRelease:
		style = st.suppress
	case device.ValueRepeat:
		style = st.emitted
	}
	return fmt.Sprintf("%s %s", style.Render(ev.Code.String()), st.dim.Render(valueName(ev.Value)))
}
