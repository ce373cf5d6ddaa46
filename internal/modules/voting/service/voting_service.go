package service

import (
	"context"
	"fmt"
	"time"

	"pairvote/internal/modules/voting/domain"
	votingout "pairvote/internal/modules/voting/port/out"
	"pairvote/internal/platform/clock"
	apperrors "pairvote/internal/platform/errors"
)

type VotingService struct {
	api   votingout.UnitAPI
	clock clock.Clock
}

func NewVotingService(api votingout.UnitAPI, clock clock.Clock) *VotingService {
	return &VotingService{api: api, clock: clock}
}

func (s *VotingService) Now() time.Time {
	return s.clock.Now()
}

func (s *VotingService) Next(ctx context.Context, sessionID string) (domain.ComparisonUnit, error) {
	unit, err := s.api.Next(ctx, sessionID)
	if err != nil {
		return domain.ComparisonUnit{}, err
	}
	if !unit.IsTerminal && unit.ID == "" {
		return domain.ComparisonUnit{}, fmt.Errorf("next unit: missing id")
	}
	return unit, nil
}

// BuildSubmission resolves choice through the entry's fetch-time choice map
// and measures the reaction time against the unit's display timestamp.
func (s *VotingService) BuildSubmission(sessionID string, entry domain.HistoryEntry, choice string, shown domain.DisplayTimestamps) (domain.VoteSubmission, error) {
	if entry.Unit.IsTerminal {
		return domain.VoteSubmission{}, apperrors.ErrDone
	}
	winner, ok := entry.Choices.Resolve(choice)
	if !ok {
		return domain.VoteSubmission{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidChoice, choice)
	}
	return domain.VoteSubmission{
		SessionID:      sessionID,
		UnitID:         entry.Unit.ID,
		Winner:         winner,
		ReactionTimeMs: shown.ReactionTime(entry.Unit.ID, s.clock.Now()),
	}, nil
}

func (s *VotingService) Submit(ctx context.Context, vote domain.VoteSubmission) error {
	return s.api.SubmitVote(ctx, vote)
}
