package dto

import "time"

type OptionView struct {
	ID         string
	URL        string
	ModelLabel string
}

type UnitView struct {
	ID            string
	PromptText    string
	Options       []OptionView
	SequenceIndex int
	TotalCount    int
	Terminal      bool
}

type EntryView struct {
	Unit    UnitView
	Vote    string
	Voted   bool
	ShownAt time.Time
}

// Snapshot is the read model handed to the presentation layer. Current is
// always History[Cursor].Unit.
type Snapshot struct {
	SessionID   string
	Current     *UnitView
	CurrentVote string
	HasVote     bool
	Cursor      int
	AtNewest    bool
	History     []EntryView
	Done        bool
	Loading     bool
	Error       string
}

type VoteInput struct {
	Choice string
}

type EventKind string

const (
	EventUnitLoaded   EventKind = "unit_loaded"
	EventVoteRecorded EventKind = "vote_recorded"
	EventCursorMoved  EventKind = "cursor_moved"
	EventCheckpoint   EventKind = "checkpoint"
	EventDone         EventKind = "done"
	EventError        EventKind = "error"
	EventCleared      EventKind = "cleared"
	EventSessionReset EventKind = "session_reset"
)

// Event notifies subscribers of a state change. Index carries the cursor
// for checkpoint and cursor events.
type Event struct {
	Kind    EventKind
	Index   int
	Message string
}
