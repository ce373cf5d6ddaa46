package domain

import "strconv"

const (
	ChoiceLeft  = "left"
	ChoiceRight = "right"
	ChoiceTie   = "tie"
)

type Option struct {
	ID         string `json:"id,omitempty"`
	URL        string `json:"url"`
	ModelLabel string `json:"model"`
}

// ComparisonUnit is one served prompt with its candidate outputs. It is not
// modified after it has been fetched.
type ComparisonUnit struct {
	ID            string   `json:"id"`
	PromptID      string   `json:"prompt_id,omitempty"`
	PromptText    string   `json:"prompt_text"`
	Options       []Option `json:"options"`
	SequenceIndex int      `json:"sequence_index"`
	TotalCount    int      `json:"total_count"`
	IsTerminal    bool     `json:"is_terminal"`
}

// ChoiceMap binds positional choices to the model shown at that position
// when the unit was fetched.
type ChoiceMap map[string]string

func NewChoiceMap(unit ComparisonUnit) ChoiceMap {
	m := ChoiceMap{ChoiceTie: ChoiceTie}
	for idx, option := range unit.Options {
		m[strconv.Itoa(idx+1)] = option.ModelLabel
	}
	if len(unit.Options) > 0 {
		m[ChoiceLeft] = unit.Options[0].ModelLabel
	}
	if len(unit.Options) > 1 {
		m[ChoiceRight] = unit.Options[1].ModelLabel
	}
	return m
}

// Resolve maps a positional choice (or a model label shown on the unit) to
// the winner identifier sent to the backend.
func (m ChoiceMap) Resolve(choice string) (string, bool) {
	if winner, ok := m[choice]; ok && winner != "" {
		return winner, true
	}
	for _, winner := range m {
		if winner == choice && choice != "" {
			return winner, true
		}
	}
	return "", false
}
