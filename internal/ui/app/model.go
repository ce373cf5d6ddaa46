package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "pairvote/internal/modules/session/dto"
	votingdto "pairvote/internal/modules/voting/dto"
	apperrors "pairvote/internal/platform/errors"
	"pairvote/internal/ui/components"
	"pairvote/internal/ui/theme"
	historyview "pairvote/internal/ui/views/history"
	voteview "pairvote/internal/ui/views/vote"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Init(ctx context.Context) (sessiondto.SessionOutput, error)
	Status(ctx context.Context) (sessiondto.SessionOutput, error)
	Reset(ctx context.Context) (sessiondto.SessionOutput, error)
	Clear(ctx context.Context) error
}

type votingPort interface {
	Load(ctx context.Context) (votingdto.Snapshot, error)
	Next(ctx context.Context) (votingdto.Snapshot, error)
	Vote(ctx context.Context, choice string) (votingdto.Snapshot, error)
	Back(ctx context.Context) votingdto.Snapshot
	GoTo(ctx context.Context, index int) (votingdto.Snapshot, error)
	ClearHistory(ctx context.Context) votingdto.Snapshot
	Snapshot() votingdto.Snapshot
	Subscribe() (<-chan votingdto.Event, func())
}

type prefsPort interface {
	Save(ctx context.Context, mode theme.Mode) error
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabVote tabID = iota
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Vote", "History"}

// ─── async messages ───────────────────────────────────────────────────────────

type snapshotMsg struct {
	snap votingdto.Snapshot
	err  error
}

type eventMsg struct {
	event votingdto.Event
	ok    bool
}

type sessionMsg struct {
	action string
	out    sessiondto.SessionOutput
	err    error
}

type themeSavedMsg struct{ err error }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Tie      key.Binding
	Back     key.Binding
	Forward  key.Binding
	Next     key.Binding
	PrevStep key.Binding
	NextStep key.Binding
	Theme    key.Binding
	Reset    key.Binding
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:     key.NewBinding(key.WithKeys("left", "1", "h"), key.WithHelp("←/1", "left wins")),
		Right:    key.NewBinding(key.WithKeys("right", "2", "l"), key.WithHelp("→/2", "right wins")),
		Tie:      key.NewBinding(key.WithKeys("t", "="), key.WithHelp("t", "tie")),
		Back:     key.NewBinding(key.WithKeys("b", "backspace"), key.WithHelp("b", "previous pair")),
		Forward:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next in history")),
		Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "load pair")),
		PrevStep: key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "replay steps")),
		NextStep: key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "replay steps")),
		Theme:    key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "toggle theme")),
		Reset:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "new session")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Tie, k.Back, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Tie},
		{k.Back, k.Forward, k.Next, k.PrevStep},
		{k.Theme, k.Reset, k.Tab},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Voting state lives in the engine; the
// model only mirrors its snapshots and forwards user intents.
type Model struct {
	session sessionPort
	voting  votingPort
	prefs   prefsPort

	events      <-chan votingdto.Event
	unsubscribe func()

	voteView    voteview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	steps     checkpoints
	snap      votingdto.Snapshot
	sessionID string
	mode      theme.Mode
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(session sessionPort, voting votingPort, prefs prefsPort, mode theme.Mode) Model {
	theme.Apply(mode)
	events, unsubscribe := voting.Subscribe()
	vote := voteview.New()
	vote.SetLoading(true)
	return Model{
		session:     session,
		voting:      voting,
		prefs:       prefs,
		events:      events,
		unsubscribe: unsubscribe,
		voteView:    vote,
		historyView: historyview.New(),
		activeTab:   tabVote,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(paletteHints()),
		steps:       newCheckpoints(),
		mode:        mode,
		status:      "starting session…",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.sessionCmd("session", m.session.Init),
		m.loadCmd(),
		m.voteView.Tick(),
		waitForEvent(m.events),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case snapshotMsg:
		m.voteView.SetLoading(false)
		cmds = append(cmds, m.apply(msg.snap))
		switch {
		case errors.Is(msg.err, apperrors.ErrBusy):
			m.status = "still working…"
		case msg.err != nil:
			m.status = apperrors.Message(msg.err, "request failed")
		case msg.snap.Done:
			m.status = "all pairs voted"
		default:
			m.status = "ready"
		}
		return m, tea.Batch(cmds...)

	case eventMsg:
		if !msg.ok {
			return m, nil
		}
		switch msg.event.Kind {
		case votingdto.EventCheckpoint:
			m.steps.push(msg.event.Index)
		case votingdto.EventCleared:
			m.steps.reset()
		case votingdto.EventSessionReset:
			m.status = "session expired, started a new one"
		case votingdto.EventError:
			m.status = msg.event.Message
		}
		cmds = append(cmds, m.apply(m.voting.Snapshot()), waitForEvent(m.events))
		return m, tea.Batch(cmds...)

	case sessionMsg:
		if msg.err != nil {
			m.status = msg.action + " failed: " + apperrors.Message(msg.err, msg.err.Error())
			return m, nil
		}
		m.sessionID = msg.out.SessionID
		m.status = fmt.Sprintf("%s: %s (%s)", msg.action, shortID(msg.out.SessionID), msg.out.Status)
		if msg.out.Offline {
			m.status += " offline"
		}
		cmd := m.apply(m.voting.Snapshot())
		return m, cmd

	case themeSavedMsg:
		if msg.err != nil {
			m.status = "theme not saved: " + msg.err.Error()
		}
		return m, nil

	case historyview.JumpMsg:
		m.activeTab = tabVote
		return m, m.goToCmd(msg.Index)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabHistory && m.historyView.Filtering() {
			break
		}

		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabVote:
		m.voteView, tabCmd = m.voteView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabHistory:
		content = m.historyView.View()
	default:
		content = m.voteView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == tabHistory {
			label = fmt.Sprintf("%s (%d)", label, len(m.snap.History))
		}
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	bar := "pairvote  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	id := m.snap.SessionID
	if id == "" {
		id = m.sessionID
	}
	if id != "" {
		left = theme.Good.Render("● "+shortID(id)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// handleKey runs global bindings first, then the vote tab's bindings.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unsubscribe()
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Tab):
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil, true
	case msg.String() == "shift+tab":
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return m, nil, true
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil, true
	case key.Matches(msg, m.keys.Palette):
		cmd = m.palette.Open()
		return m, cmd, true
	case key.Matches(msg, m.keys.Theme):
		cmd = m.toggleTheme()
		return m, cmd, true
	case key.Matches(msg, m.keys.Reset):
		m.steps.reset()
		return m, m.sessionCmd("new session", m.session.Reset), true
	case key.Matches(msg, m.keys.PrevStep):
		if idx, ok := m.steps.back(); ok {
			cmd = m.goToCmd(idx)
		}
		return m, cmd, true
	case key.Matches(msg, m.keys.NextStep):
		if idx, ok := m.steps.forward(); ok {
			cmd = m.goToCmd(idx)
		}
		return m, cmd, true
	}

	if m.activeTab != tabVote {
		return m, nil, false
	}
	switch {
	case key.Matches(msg, m.keys.Left):
		cmd = m.voteCmd("left")
	case key.Matches(msg, m.keys.Right):
		cmd = m.voteCmd("right")
	case key.Matches(msg, m.keys.Tie):
		cmd = m.voteCmd("tie")
	case key.Matches(msg, m.keys.Back):
		cmd = m.backCmd()
	case key.Matches(msg, m.keys.Forward):
		if m.snap.Cursor >= 0 && !m.snap.AtNewest {
			cmd = m.goToCmd(m.snap.Cursor + 1)
		}
	case key.Matches(msg, m.keys.Next):
		cmd = m.nextCmd()
	default:
		return m, nil, false
	}
	return m, cmd, true
}

func (m *Model) apply(snap votingdto.Snapshot) tea.Cmd {
	m.snap = snap
	m.voteView.SetSnapshot(snap)
	return m.historyView.SetSnapshot(snap)
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.voteView, _ = m.voteView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

func (m *Model) toggleTheme() tea.Cmd {
	m.mode = m.mode.Toggle()
	theme.Apply(m.mode)
	m.voteView.Restyle()
	m.historyView.Restyle()
	m.status = "theme: " + string(m.mode)
	mode := m.mode
	return func() tea.Msg {
		return themeSavedMsg{err: m.prefs.Save(context.Background(), mode)}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ─── async commands ───────────────────────────────────────────────────────────

func waitForEvent(events <-chan votingdto.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		return eventMsg{event: event, ok: ok}
	}
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.voting.Load(context.Background())
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) nextCmd() tea.Cmd {
	voting := m.voting
	return tea.Batch(m.voteView.SetLoading(true), func() tea.Msg {
		snap, err := voting.Next(context.Background())
		return snapshotMsg{snap: snap, err: err}
	})
}

func (m *Model) voteCmd(choice string) tea.Cmd {
	voting := m.voting
	return tea.Batch(m.voteView.SetLoading(true), func() tea.Msg {
		snap, err := voting.Vote(context.Background(), choice)
		return snapshotMsg{snap: snap, err: err}
	})
}

func (m Model) backCmd() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{snap: m.voting.Back(context.Background())}
	}
}

func (m Model) goToCmd(index int) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.voting.GoTo(context.Background(), index)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Model) clearHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{snap: m.voting.ClearHistory(context.Background())}
	}
}

func (m Model) sessionCmd(action string, run func(context.Context) (sessiondto.SessionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := run(context.Background())
		return sessionMsg{action: action, out: out, err: err}
	}
}
