package theme

import "github.com/charmbracelet/lipgloss"

type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

func ParseMode(raw string) Mode {
	if Mode(raw) == Light {
		return Light
	}
	return Dark
}

func (m Mode) Toggle() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// GlamourStyle names the glamour standard style matching the mode.
func (m Mode) GlamourStyle() string {
	return string(m)
}

type palette struct {
	base, mantle, surface, text, subtext, accent, info, good, hot lipgloss.Color
}

// Catppuccin mocha and latte.
var palettes = map[Mode]palette{
	Dark: {
		base: "#1e1e2e", mantle: "#181825", surface: "#45475a", text: "#cdd6f4",
		subtext: "#a6adc8", accent: "#b4befe", info: "#74c7ec", good: "#a6e3a1", hot: "#fab387",
	},
	Light: {
		base: "#eff1f5", mantle: "#e6e9ef", surface: "#bcc0cc", text: "#4c4f69",
		subtext: "#6c6f85", accent: "#7287fd", info: "#209fb5", good: "#40a02b", hot: "#fe640b",
	},
}

var (
	Base     lipgloss.Color
	Mantle   lipgloss.Color
	Surface1 lipgloss.Color
	Text     lipgloss.Color
	Subtext0 lipgloss.Color
	Lavender lipgloss.Color
	Sapphire lipgloss.Color
	Green    lipgloss.Color
	Peach    lipgloss.Color

	Pane       lipgloss.Style
	PaneActive lipgloss.Style
	Title      lipgloss.Style
	Muted      lipgloss.Style
	Hot        lipgloss.Style
	Good       lipgloss.Style
)

var current = Dark

func init() {
	Apply(Dark)
}

func Current() Mode {
	return current
}

// Apply swaps the package colours and styles. Call it from the UI goroutine.
func Apply(mode Mode) {
	p, ok := palettes[mode]
	if !ok {
		mode, p = Dark, palettes[Dark]
	}
	current = mode
	Base, Mantle, Surface1, Text, Subtext0 = p.base, p.mantle, p.surface, p.text, p.subtext
	Lavender, Sapphire, Green, Peach = p.accent, p.info, p.good, p.hot

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Foreground(Text).
		Padding(0, 1)
	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good = lipgloss.NewStyle().Foreground(Green).Bold(true)
}
