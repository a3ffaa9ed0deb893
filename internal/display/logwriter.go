package display

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// DebugEntry is a single parsed debug log line shown in the monitor's
// log pane.
type DebugEntry struct {
	Time     string
	Category string
	Message  string
}

// DebugLogMsg is sent to the monitor's tea.Program for every debug log
// line written through a LogWriter (teacher's tui.DebugLogMsg).
type DebugLogMsg struct{ Entry DebugEntry }

// LogWriter is an io.Writer that forwards each written line to a
// tea.Program as a DebugLogMsg, for use as the output of an
// *internal/logging.Logger so `remap --monitor` can show engine/device
// chatter inline instead of interleaving it with the TUI's own output.
type LogWriter struct {
	program *tea.Program
}

// NewLogWriter builds a LogWriter that forwards lines to p.
func NewLogWriter(p *tea.Program) *LogWriter {
	return &LogWriter{program: p}
}

// Write implements io.Writer. The send happens in a goroutine so a
// logging call made from inside a bubbletea Cmd can't deadlock against
// the program's own event loop (same reasoning as the teacher's
// tui.LogWriter.Write).
func (w *LogWriter) Write(b []byte) (int, error) {
	line := strings.TrimRight(string(b), "\n")
	entry := parseLine(line)
	go w.program.Send(DebugLogMsg{Entry: entry})
	return len(b), nil
}

// parseLine extracts time, category, and message from a line produced
// by an internal/logging Logger: "HH:MM:SS.micros [LEVEL] message" from
// its leveled methods, "HH:MM:SS.micros message" from Std(). A level tag
// placed before the timestamp is stripped as well.
func parseLine(line string) DebugEntry {
	entry := DebugEntry{Category: "debug", Message: line}

	trimLevel := func(s string) string {
		for _, prefix := range []string{"[DEBUG] ", "[INFO] ", "[WARN] ", "[ERROR] "} {
			if strings.HasPrefix(s, prefix) {
				return strings.TrimPrefix(s, prefix)
			}
		}
		return s
	}

	msg := trimLevel(line)
	if len(msg) >= 8 && msg[2] == ':' && msg[5] == ':' {
		if spaceIdx := strings.IndexByte(msg, ' '); spaceIdx > 0 {
			entry.Time = msg[:spaceIdx]
			msg = msg[spaceIdx+1:]
		}
	}
	msg = trimLevel(msg)

	entry.Category, entry.Message = inferCategory(msg)
	return entry
}

// inferCategory classifies a log message by its leading word, the way
// the teacher's inferCategory routed "hotkey"/"transcrib"/"paste" lines
// to distinct debug-pane colors — here routed to remap-engine concerns.
func inferCategory(msg string) (category, message string) {
	lower := strings.ToLower(msg)
	switch {
	case strings.HasPrefix(lower, "device"), strings.HasPrefix(lower, "grab"):
		return "device", msg
	case strings.HasPrefix(lower, "mapping"):
		return "mapping", msg
	case strings.HasPrefix(lower, "mode"):
		return "mode", msg
	case strings.HasPrefix(lower, "engine"), strings.HasPrefix(lower, "tap"), strings.HasPrefix(lower, "chord"):
		return "engine", msg
	default:
		return "debug", msg
	}
}
