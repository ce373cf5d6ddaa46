package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pairvote/internal/ui/theme"
)

const maxHints = 5

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

// Hint describes one palette command: Name is what the user types, Args the
// argument synopsis and Help a short description.
type Hint struct {
	Name string
	Args string
	Help string
}

// Palette is a command-palette overlay. Typing narrows the hints by command
// name; tab completes the first match.
type Palette struct {
	input   textinput.Model
	hints   []Hint
	visible bool
	width   int
}

func NewPalette(hints []Hint) Palette {
	ti := textinput.New()
	ti.Placeholder = "command…"
	ti.CharLimit = 128
	return Palette{input: ti, hints: hints}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty input and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if matches := p.Matches(); len(matches) > 0 {
				p.input.SetValue(matches[0].Name + " ")
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// Matches returns the hints whose name starts with the typed command word.
// Once arguments follow, only the exact command stays listed.
func (p Palette) Matches() []Hint {
	value := strings.ToLower(strings.TrimLeft(p.input.Value(), " "))
	word, _, hasArgs := strings.Cut(value, " ")
	var out []Hint
	for _, h := range p.hints {
		if hasArgs && h.Name != word {
			continue
		}
		if strings.HasPrefix(h.Name, word) {
			out = append(out, h)
		}
	}
	return out
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	w := p.width
	if w < 20 {
		w = 64
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	matches := p.Matches()
	if len(matches) > maxHints {
		matches = matches[:maxHints]
	}
	if len(matches) > 0 {
		sb.WriteString("\n")
	}
	usageStyle := lipgloss.NewStyle().Foreground(theme.Lavender)
	for _, h := range matches {
		usage := h.Name
		if h.Args != "" {
			usage += " " + h.Args
		}
		sb.WriteString("  " + usageStyle.Render(usage) + "  " + theme.Muted.Render(h.Help) + "\n")
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Peach).
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(0, 1).
		Width(w - 2).
		Render(sb.String())
}
