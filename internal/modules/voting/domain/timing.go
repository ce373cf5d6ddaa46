package domain

import "time"

// DisplayTimestamps records when each unit was first shown.
type DisplayTimestamps map[string]time.Time

// Mark records at for unitID unless a time is already present.
func (d DisplayTimestamps) Mark(unitID string, at time.Time) bool {
	if unitID == "" {
		return false
	}
	if _, ok := d[unitID]; ok {
		return false
	}
	d[unitID] = at
	return true
}

// ReactionTime is the milliseconds since unitID was shown, never negative
// and 0 when nothing was recorded.
func (d DisplayTimestamps) ReactionTime(unitID string, now time.Time) int64 {
	shown, ok := d[unitID]
	if !ok {
		return 0
	}
	ms := now.Sub(shown).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

type VoteSubmission struct {
	SessionID      string
	UnitID         string
	Winner         string
	ReactionTimeMs int64
}

// State is the persisted mirror of the engine.
type State struct {
	History     History
	Timestamps  DisplayTimestamps
	CurrentUnit *ComparisonUnit
}
