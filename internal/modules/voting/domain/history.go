package domain

import "fmt"

// Latest is the cursor sentinel meaning "the newest history entry".
const Latest = -1

type HistoryEntry struct {
	Unit    ComparisonUnit `json:"unit"`
	Choices ChoiceMap      `json:"choices"`
	Vote    *string        `json:"vote"`
}

func (e HistoryEntry) Voted() bool {
	return e.Vote != nil
}

// History is append-only; the cursor is Latest or an index into Entries.
type History struct {
	Entries []HistoryEntry
	Cursor  int
}

func NewHistory() History {
	return History{Cursor: Latest}
}

// Resolve returns the cursor as an index, or -1 for an empty history.
func (h History) Resolve() int {
	if len(h.Entries) == 0 {
		return -1
	}
	if h.Cursor == Latest || h.Cursor >= len(h.Entries) || h.Cursor < 0 {
		return len(h.Entries) - 1
	}
	return h.Cursor
}

func (h History) Current() (HistoryEntry, int, bool) {
	idx := h.Resolve()
	if idx < 0 {
		return HistoryEntry{}, -1, false
	}
	return h.Entries[idx], idx, true
}

func (h History) AtNewest() bool {
	return h.Resolve() == len(h.Entries)-1
}

func (h History) Newest() (HistoryEntry, bool) {
	if len(h.Entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.Entries[len(h.Entries)-1], true
}

// Append adds unit as an unvoted entry and points the cursor at it.
func (h *History) Append(unit ComparisonUnit) int {
	unit.Options = append([]Option(nil), unit.Options...)
	h.Entries = append(h.Entries, HistoryEntry{Unit: unit, Choices: NewChoiceMap(unit)})
	h.Cursor = Latest
	return len(h.Entries) - 1
}

// MoveTo points the cursor at idx; the newest index collapses to Latest.
func (h *History) MoveTo(idx int) error {
	if idx < 0 || idx >= len(h.Entries) {
		return fmt.Errorf("history index %d out of range [0,%d)", idx, len(h.Entries))
	}
	if idx == len(h.Entries)-1 {
		h.Cursor = Latest
		return nil
	}
	h.Cursor = idx
	return nil
}

func (h *History) RecordVote(idx int, winner string) {
	vote := winner
	h.Entries[idx].Vote = &vote
}

// Normalize repairs a cursor that no longer fits the entries.
func (h *History) Normalize() {
	if h.Cursor != Latest && (h.Cursor < 0 || h.Cursor >= len(h.Entries)) {
		h.Cursor = Latest
	}
	if h.Cursor == len(h.Entries)-1 {
		h.Cursor = Latest
	}
}
