package display

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette shared by the device/key tables
// (tables.go) and the live monitor (monitor.go), adapted from the
// teacher's tui.Theme but trimmed to what a remapper's own output needs:
// no transcript/recording-badge colors, no user-supplied custom themes.
type Theme struct {
	Name      string
	Primary   lipgloss.Color // title, mode badge
	Secondary lipgloss.Color // labels, borders, table headers
	Accent    lipgloss.Color // emitted-key highlight
	Error     lipgloss.Color // error rows, status bad
	Success   lipgloss.Color // held/engaged highlight, status ok
	Warning   lipgloss.Color // suppressed-key highlight
	Dimmed    lipgloss.Color // quit hint, timestamps
	Separator lipgloss.Color // log separators
}

var themes = map[string]Theme{
	"synthwave": {
		Name:      "Synthwave",
		Primary:   lipgloss.Color("#FF6AC1"),
		Secondary: lipgloss.Color("#00E5FF"),
		Accent:    lipgloss.Color("#B388FF"),
		Error:     lipgloss.Color("#FF8A80"),
		Success:   lipgloss.Color("#64FFDA"),
		Warning:   lipgloss.Color("#FFAB40"),
		Dimmed:    lipgloss.Color("#666666"),
		Separator: lipgloss.Color("#444444"),
	},
	"everforest": {
		Name:      "Everforest",
		Primary:   lipgloss.Color("#A7C080"),
		Secondary: lipgloss.Color("#7FBBB3"),
		Accent:    lipgloss.Color("#D699B6"),
		Error:     lipgloss.Color("#E67E80"),
		Success:   lipgloss.Color("#83C092"),
		Warning:   lipgloss.Color("#DBBC7F"),
		Dimmed:    lipgloss.Color("#859289"),
		Separator: lipgloss.Color("#4F585E"),
	},
	"monochrome": {
		Name:      "Monochrome",
		Primary:   lipgloss.Color("#FFFFFF"),
		Secondary: lipgloss.Color("#CCCCCC"),
		Accent:    lipgloss.Color("#AAAAAA"),
		Error:     lipgloss.Color("#FF0000"),
		Success:   lipgloss.Color("#FFFFFF"),
		Warning:   lipgloss.Color("#CCCCCC"),
		Dimmed:    lipgloss.Color("#888888"),
		Separator: lipgloss.Color("#444444"),
	},
}

var themeOrder = []string{"synthwave", "everforest", "monochrome"}

// ThemeNames returns the built-in theme names in cycle order.
func ThemeNames() []string { return themeOrder }

// LoadTheme returns the named theme, case-insensitively, falling back to
// synthwave for an unrecognized name (same fallback the teacher used for
// a bad --theme flag).
func LoadTheme(name string) Theme {
	if t, ok := themes[lower(name)]; ok {
		return t
	}
	return themes["synthwave"]
}

// NextTheme returns the theme that follows current in the cycle order,
// for the monitor's 't' keybinding.
func NextTheme(current string) Theme {
	cur := lower(current)
	for i, name := range themeOrder {
		if name == cur {
			return themes[themeOrder[(i+1)%len(themeOrder)]]
		}
	}
	return themes[themeOrder[0]]
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// styles holds the lipgloss.Style set derived from a Theme. Built fresh
// on each buildStyles call rather than mutating package vars in place so
// a monitor.Model and a package-level table renderer never fight over
// the same style instance.
type styles struct {
	title     lipgloss.Style
	border    lipgloss.Style
	label     lipgloss.Style
	header    lipgloss.Style
	body      lipgloss.Style
	dim       lipgloss.Style
	sep       lipgloss.Style
	held      lipgloss.Style
	emitted   lipgloss.Style
	suppress  lipgloss.Style
	modeBadge lipgloss.Style
	errStyle  lipgloss.Style
}

func buildStyles(t Theme) styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1),
		border:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Secondary).Padding(0, 1),
		label:     lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		header:    lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		body:      lipgloss.NewStyle().Foreground(t.Accent),
		dim:       lipgloss.NewStyle().Foreground(t.Dimmed),
		sep:       lipgloss.NewStyle().Foreground(t.Separator),
		held:      lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		emitted:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		suppress:  lipgloss.NewStyle().Foreground(t.Warning),
		modeBadge: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		errStyle:  lipgloss.NewStyle().Foreground(t.Error).Bold(true),
	}
}
