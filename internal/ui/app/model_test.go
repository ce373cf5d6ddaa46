package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "pairvote/internal/modules/session/dto"
	votingdto "pairvote/internal/modules/voting/dto"
	apperrors "pairvote/internal/platform/errors"
	"pairvote/internal/ui/components"
	"pairvote/internal/ui/theme"
)

type fakeSession struct{}

func (fakeSession) Init(context.Context) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{SessionID: "sess-1", Status: "active"}, nil
}
func (fakeSession) Status(context.Context) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{SessionID: "sess-1", Status: "active"}, nil
}
func (fakeSession) Reset(context.Context) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{SessionID: "sess-2", Status: "active"}, nil
}
func (fakeSession) Clear(context.Context) error { return nil }

type fakeVoting struct {
	snap   votingdto.Snapshot
	events chan votingdto.Event
	votes  []string
	gotos  []int
}

func (f *fakeVoting) Load(context.Context) (votingdto.Snapshot, error) { return f.snap, nil }
func (f *fakeVoting) Next(context.Context) (votingdto.Snapshot, error) { return f.snap, nil }
func (f *fakeVoting) Vote(_ context.Context, choice string) (votingdto.Snapshot, error) {
	f.votes = append(f.votes, choice)
	return f.snap, nil
}
func (f *fakeVoting) Back(context.Context) votingdto.Snapshot { return f.snap }
func (f *fakeVoting) GoTo(_ context.Context, index int) (votingdto.Snapshot, error) {
	f.gotos = append(f.gotos, index)
	return f.snap, nil
}
func (f *fakeVoting) ClearHistory(context.Context) votingdto.Snapshot { return votingdto.Snapshot{Cursor: -1} }
func (f *fakeVoting) Snapshot() votingdto.Snapshot                     { return f.snap }
func (f *fakeVoting) Subscribe() (<-chan votingdto.Event, func()) {
	return f.events, func() {}
}

type fakePrefs struct{ saved []theme.Mode }

func (f *fakePrefs) Save(_ context.Context, mode theme.Mode) error {
	f.saved = append(f.saved, mode)
	return nil
}

func newTestModel() (Model, *fakeVoting, *fakePrefs) {
	voting := &fakeVoting{
		snap: votingdto.Snapshot{
			SessionID: "sess-1",
			Cursor:    0,
			AtNewest:  true,
			Current:   &votingdto.UnitView{ID: "u1", PromptText: "a cat"},
			History:   []votingdto.EntryView{{Unit: votingdto.UnitView{ID: "u1", PromptText: "a cat"}}},
		},
		events: make(chan votingdto.Event, 4),
	}
	prefs := &fakePrefs{}
	return NewModel(fakeSession{}, voting, prefs, theme.Dark), voting, prefs
}

func TestBusySnapshotKeepsStateAndReportsStatus(t *testing.T) {
	m, voting, _ := newTestModel()
	next, _ := m.Update(snapshotMsg{snap: voting.snap, err: apperrors.ErrBusy})
	got := next.(Model)
	if got.status != "still working…" || got.snap.Current == nil {
		t.Fatalf("unexpected model: status=%q", got.status)
	}
}

func TestCheckpointEventsFeedReplay(t *testing.T) {
	m, voting, _ := newTestModel()
	for _, idx := range []int{0, 1} {
		next, _ := m.Update(eventMsg{event: votingdto.Event{Kind: votingdto.EventCheckpoint, Index: idx}, ok: true})
		m = next.(Model)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected a goto command")
	}
	cmd()
	if len(voting.gotos) != 1 || voting.gotos[0] != 0 {
		t.Fatalf("expected replay to entry 0, got %v", voting.gotos)
	}
}

func TestVoteKeyDispatchesChoice(t *testing.T) {
	m, voting, _ := newTestModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if cmd == nil {
		t.Fatalf("expected a vote command")
	}
	if !next.(Model).voteView.Loading() {
		t.Fatalf("vote should show the spinner")
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if _, ok := c().(snapshotMsg); ok {
				break
			}
		}
	}
	if len(voting.votes) != 1 || voting.votes[0] != "right" {
		t.Fatalf("expected a right vote, got %v", voting.votes)
	}
}

func TestPaletteCommands(t *testing.T) {
	m, voting, prefs := newTestModel()
	next, _ := m.Update(components.PaletteSubmitMsg{Input: "goto zero"})
	if got := next.(Model).status; got != "goto expects an entry number from 1" {
		t.Fatalf("unexpected status %q", got)
	}

	next, cmd := m.Update(components.PaletteSubmitMsg{Input: "goto 1"})
	cmd()
	if len(voting.gotos) != 1 || voting.gotos[0] != 0 {
		t.Fatalf("goto is 1-based, got %v", voting.gotos)
	}

	next, cmd = next.(Model).Update(components.PaletteSubmitMsg{Input: "theme:toggle"})
	if next.(Model).mode != theme.Light {
		t.Fatalf("theme should switch to light")
	}
	if msg, ok := cmd().(themeSavedMsg); !ok || msg.err != nil {
		t.Fatalf("expected saved theme, got %#v", msg)
	}
	if len(prefs.saved) != 1 || prefs.saved[0] != theme.Light {
		t.Fatalf("theme not persisted: %v", prefs.saved)
	}
	theme.Apply(theme.Dark)
}

func TestPaletteReportsUsageAndUnknownCommands(t *testing.T) {
	m, voting, _ := newTestModel()
	next, cmd := m.Update(components.PaletteSubmitMsg{Input: "vote"})
	if got := next.(Model).status; got != "usage: vote <left|right|tie|1|2>" || cmd != nil {
		t.Fatalf("unexpected status %q", got)
	}
	next, _ = m.Update(components.PaletteSubmitMsg{Input: "launch"})
	if got := next.(Model).status; got != "unknown command: launch" {
		t.Fatalf("unexpected status %q", got)
	}
	if len(voting.votes) != 0 {
		t.Fatalf("no command should have run, got votes %v", voting.votes)
	}
}

func TestPaletteWidthFollowsWindow(t *testing.T) {
	for _, tc := range []struct{ window, want int }{{200, 80}, {40, 36}} {
		m, _, _ := newTestModel()
		next, _ := m.Update(tea.WindowSizeMsg{Width: tc.window, Height: 30})
		model := next.(Model)
		_ = model.palette.Open()
		if got := lipgloss.Width(model.palette.View()); got != tc.want {
			t.Fatalf("window %d: palette width %d, want %d", tc.window, got, tc.want)
		}
	}
}
