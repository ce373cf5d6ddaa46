package app

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	sessiondto "pairvote/internal/modules/session/dto"
	"pairvote/internal/ui/components"
)

// paletteCommand is one entry of the command palette. The same table feeds
// the palette hints and executePalette.
type paletteCommand struct {
	components.Hint
	args int
	run  func(m *Model, args []string) tea.Cmd
}

var paletteCommands = []paletteCommand{
	{
		Hint: components.Hint{Name: "vote", Args: "<left|right|tie|1|2>", Help: "record a preference"},
		args: 1,
		run: func(m *Model, args []string) tea.Cmd {
			m.activeTab = tabVote
			return m.voteCmd(args[0])
		},
	},
	{
		Hint: components.Hint{Name: "next", Help: "go to the pending pair"},
		run:  func(m *Model, _ []string) tea.Cmd { return m.nextCmd() },
	},
	{
		Hint: components.Hint{Name: "back", Help: "previous pair"},
		run:  func(m *Model, _ []string) tea.Cmd { return m.backCmd() },
	},
	{
		Hint: components.Hint{Name: "goto", Args: "<n>", Help: "jump to history entry n"},
		args: 1,
		run: func(m *Model, args []string) tea.Cmd {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				m.status = "goto expects an entry number from 1"
				return nil
			}
			m.activeTab = tabVote
			return m.goToCmd(n - 1)
		},
	},
	{
		Hint: components.Hint{Name: "history:clear", Help: "forget local history"},
		run:  func(m *Model, _ []string) tea.Cmd { return m.clearHistoryCmd() },
	},
	{
		Hint: components.Hint{Name: "session:status", Help: "re-check the session"},
		run:  func(m *Model, _ []string) tea.Cmd { return m.sessionCmd("session", m.session.Status) },
	},
	{
		Hint: components.Hint{Name: "session:reset", Help: "start a new session"},
		run: func(m *Model, _ []string) tea.Cmd {
			m.steps.reset()
			return m.sessionCmd("new session", m.session.Reset)
		},
	},
	{
		Hint: components.Hint{Name: "session:clear", Help: "drop the session id"},
		run: func(m *Model, _ []string) tea.Cmd {
			session := m.session
			return m.sessionCmd("session cleared", func(ctx context.Context) (sessiondto.SessionOutput, error) {
				return sessiondto.SessionOutput{Status: "cleared"}, session.Clear(ctx)
			})
		},
	},
	{
		Hint: components.Hint{Name: "theme:toggle", Help: "switch dark/light"},
		run:  func(m *Model, _ []string) tea.Cmd { return m.toggleTheme() },
	},
}

func paletteHints() []components.Hint {
	hints := make([]components.Hint, len(paletteCommands))
	for i, c := range paletteCommands {
		hints[i] = c.Hint
	}
	return hints
}

func lookupCommand(name string) (paletteCommand, bool) {
	for _, c := range paletteCommands {
		if c.Name == name {
			return c, true
		}
	}
	return paletteCommand{}, false
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	c, ok := lookupCommand(strings.ToLower(parts[0]))
	if !ok {
		m.status = "unknown command: " + parts[0]
		return m, nil
	}
	if len(parts)-1 < c.args {
		m.status = "usage: " + c.Name + " " + c.Args
		return m, nil
	}
	cmd := c.run(&m, parts[1:])
	return m, cmd
}
