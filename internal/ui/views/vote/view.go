package vote

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	votingdto "pairvote/internal/modules/voting/dto"
	"pairvote/internal/ui/theme"
)

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders the unit under the cursor. It owns no state of its own
// beyond the last snapshot handed to it by the app model.
type Model struct {
	snap     votingdto.Snapshot
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	loading  bool
	width    int
	height   int
}

func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		viewport: viewport.New(0, 0),
		spinner:  sp,
		renderer: newRenderer(theme.Current(), 0),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.viewport.SetContent(m.renderContent())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	vpHeight := m.height - lipgloss.Height(header) - 1
	if vpHeight < 1 {
		vpHeight = 1
	}

	if m.loading && m.snap.Current == nil {
		loading := lipgloss.Place(m.width, vpHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading next pair…")
		return lipgloss.JoinVertical(lipgloss.Left, header, loading)
	}

	vp := m.viewport
	vp.Height = vpHeight
	return lipgloss.JoinVertical(lipgloss.Left, header, vp.View(), m.renderFooter())
}

// SetSnapshot replaces the displayed state.
func (m *Model) SetSnapshot(snap votingdto.Snapshot) {
	m.snap = snap
	m.viewport.SetContent(m.renderContent())
}

// SetLoading toggles the spinner and returns its tick command when starting.
func (m *Model) SetLoading(loading bool) tea.Cmd {
	start := loading && !m.loading
	m.loading = loading
	if start {
		return m.spinner.Tick
	}
	return nil
}

func (m Model) Loading() bool {
	return m.loading
}

func (m Model) Tick() tea.Cmd {
	return m.spinner.Tick
}

// Restyle rebuilds the prompt renderer after a theme switch.
func (m *Model) Restyle() {
	m.spinner.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	m.renderer = newRenderer(theme.Current(), m.width)
	m.viewport.SetContent(m.renderContent())
}

// ─── private ─────────────────────────────────────────────────────────────────

func newRenderer(mode theme.Mode, width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(mode.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = m.height - 3
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.renderer = newRenderer(theme.Current(), m.width)
}

func (m Model) renderHeader() string {
	unit := m.snap.Current
	if unit == nil {
		return theme.Title.Render("Vote") + theme.Muted.Render("  press n to load a pair") + "\n"
	}
	parts := []string{theme.Title.Render("Vote")}
	if unit.TotalCount > 0 {
		parts = append(parts, theme.Muted.Render(fmt.Sprintf("%d/%d", unit.SequenceIndex+1, unit.TotalCount)))
	}
	parts = append(parts, theme.Muted.Render(fmt.Sprintf("entry %d of %d", m.snap.Cursor+1, len(m.snap.History))))
	if !m.snap.AtNewest {
		parts = append(parts, theme.Hot.Render("reviewing"))
	}
	if m.loading {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, "  ") + "\n"
}

func (m Model) renderFooter() string {
	if m.snap.Error != "" {
		return theme.Hot.Render(m.snap.Error)
	}
	return theme.Muted.Render("←/1: left  →/2: right  t: tie  b: back  f: forward")
}

func (m Model) renderContent() string {
	unit := m.snap.Current
	if m.snap.Done {
		return theme.Good.Render("All done. No more comparisons left.")
	}
	if unit == nil {
		return theme.Muted.Render("(nothing loaded)")
	}

	var sb strings.Builder
	prompt := unit.PromptText
	if m.renderer != nil && prompt != "" {
		if rendered, err := m.renderer.Render(prompt); err == nil {
			prompt = rendered
		}
	}
	sb.WriteString(prompt + "\n")

	labels := []string{"left", "right"}
	for idx, option := range unit.Options {
		label := fmt.Sprintf("%d", idx+1)
		if idx < len(labels) {
			label += "/" + labels[idx]
		}
		style := theme.Pane
		line := option.URL
		if m.snap.HasVote && (m.snap.CurrentVote == option.ModelLabel) {
			style = theme.PaneActive
			line += "  " + theme.Good.Render("✓ "+option.ModelLabel)
		}
		sb.WriteString(style.Render(theme.Title.Render(label)+"  "+line) + "\n")
	}
	if m.snap.HasVote {
		sb.WriteString(theme.Muted.Render("your vote: ") + m.snap.CurrentVote + "\n")
	}
	return sb.String()
}
