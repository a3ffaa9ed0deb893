package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const maxDebugLines = 50

// Snapshot is a plain-data view of engine.Engine state (spec §3), built
// by cmd/evremap after every Apply call and pushed into the monitor's
// tea.Program. Kept decoupled from internal/engine's types so the
// monitor never imports the engine package directly, mirroring the
// teacher's LevelSampler/MicChecker narrow-interface convention.
type Snapshot struct {
	DeviceName   string
	Mode         string
	Held         []string
	Emitted      []string
	Suppressed   []string
	Engaged      []string
	TapCandidate string
}

// SnapshotMsg carries an updated Snapshot into the monitor (teacher's
// RecordingStartedMsg/StatusCheckMsg convention: plain data pushed via
// tea.Program.Send from the engine's event-loop goroutine).
type SnapshotMsg struct{ Snapshot Snapshot }

// Model is the bubbletea model for `remap --monitor` (spec SUPPLEMENTED
// FEATURES): a read-only live view of engine state. It never feeds back
// into the engine — quitting the monitor does not stop remapping.
type Model struct {
	snapshot  Snapshot
	debug     []DebugEntry
	themeName string
	width     int
	quitting  bool
}

// NewModel builds a monitor Model for deviceName, with the named
// starting theme (falls back to synthwave if unrecognized).
func NewModel(deviceName, themeName string) Model {
	return Model{
		snapshot:  Snapshot{DeviceName: deviceName, Mode: "default"},
		themeName: strings.ToLower(themeName),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "t":
			m.themeName = strings.ToLower(NextTheme(m.themeName).Name)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		return m, nil

	case DebugLogMsg:
		m.debug = append(m.debug, msg.Entry)
		if len(m.debug) > maxDebugLines {
			m.debug = m.debug[len(m.debug)-maxDebugLines:]
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	theme := LoadTheme(m.themeName)
	st := buildStyles(theme)

	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("evremap — %s", m.snapshot.DeviceName)))
	b.WriteString("\n")
	b.WriteString(st.modeBadge.Render(fmt.Sprintf("mode: %s", m.snapshot.Mode)))
	b.WriteString("\n\n")

	body := lipglossJoin(
		row(st, "held", m.snapshot.Held, st.held),
		row(st, "emitted", m.snapshot.Emitted, st.emitted),
		row(st, "suppressed", m.snapshot.Suppressed, st.suppress),
		row(st, "engaged", m.snapshot.Engaged, st.body),
	)
	if m.snapshot.TapCandidate != "" {
		body += "\n" + st.label.Render("tap candidate: ") + st.body.Render(m.snapshot.TapCandidate)
	}
	border := st.border
	if m.width > 0 {
		border = border.MaxWidth(m.width)
	}
	b.WriteString(border.Render(body))
	b.WriteString("\n\n")

	b.WriteString(st.header.Render("log"))
	b.WriteString("\n")
	for _, e := range m.debug {
		b.WriteString(formatDebugEntry(e, st))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(st.dim.Render("q: quit   t: cycle theme"))
	return b.String()
}

func row(st styles, label string, items []string, valueStyle interface{ Render(...string) string }) string {
	content := strings.Join(items, ", ")
	if content == "" {
		content = "-"
	}
	return fmt.Sprintf("%s %s", st.label.Render(label+":"), valueStyle.Render(content))
}

func formatDebugEntry(e DebugEntry, st styles) string {
	return fmt.Sprintf("%s %s %s", st.dim.Render(e.Time), st.header.Render("["+e.Category+"]"), st.body.Render(e.Message))
}

// lipglossJoin concatenates panel rows with newlines; a thin wrapper so
// row construction above reads as a list rather than repeated "+\n+".
func lipglossJoin(rows ...string) string {
	return strings.Join(rows, "\n")
}
