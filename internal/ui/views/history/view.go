package history

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	votingdto "pairvote/internal/modules/voting/dto"
	"pairvote/internal/ui/theme"
)

// ─── messages ────────────────────────────────────────────────────────────────

// JumpMsg asks the app model to move the cursor to Index.
type JumpMsg struct {
	Index int
}

// ─── list item ───────────────────────────────────────────────────────────────

type entryItem struct {
	index  int
	entry  votingdto.EntryView
	cursor bool
}

func (i entryItem) Title() string {
	marker := "  "
	if i.cursor {
		marker = "▸ "
	}
	return fmt.Sprintf("%s#%d  %s", marker, i.index+1, i.entry.Unit.PromptText)
}

func (i entryItem) Description() string {
	if i.entry.Unit.Terminal {
		return "end of session"
	}
	if !i.entry.Voted {
		return "not voted"
	}
	return "vote: " + i.entry.Vote
}

func (i entryItem) FilterValue() string { return i.entry.Unit.PromptText }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	list   list.Model
	width  int
	height int
}

func New() Model {
	l := list.New(nil, newDelegate(), 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{list: l}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)
	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if item, ok := m.list.SelectedItem().(entryItem); ok {
				index := item.index
				return m, func() tea.Msg { return JumpMsg{Index: index} }
			}
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(m.list.View())
}

// SetSnapshot rebuilds the list, newest entry last.
func (m *Model) SetSnapshot(snap votingdto.Snapshot) tea.Cmd {
	items := make([]list.Item, len(snap.History))
	for idx, entry := range snap.History {
		items[idx] = entryItem{index: idx, entry: entry, cursor: idx == snap.Cursor}
	}
	cmd := m.list.SetItems(items)
	if snap.Cursor >= 0 && snap.Cursor < len(items) {
		m.list.Select(snap.Cursor)
	}
	return cmd
}

// Restyle reapplies theme colours after a theme switch.
func (m *Model) Restyle() {
	m.list.Styles.Title = theme.Title
	m.list.SetDelegate(newDelegate())
}

// Filtering reports whether the list's search filter is active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func newDelegate() list.DefaultDelegate {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)
	return delegate
}
