package in

import (
	"context"

	"pairvote/internal/modules/voting/dto"
)

type Usecase interface {
	GetNext(ctx context.Context) (dto.Snapshot, error)
	Vote(ctx context.Context, input dto.VoteInput) (dto.Snapshot, error)
	GoBack(ctx context.Context) dto.Snapshot
	GoTo(ctx context.Context, index int) (dto.Snapshot, error)
	CurrentVote() (string, bool)
	ClearHistory(ctx context.Context) dto.Snapshot
	Restore(ctx context.Context) dto.Snapshot
	Snapshot() dto.Snapshot
	Subscribe() (<-chan dto.Event, func())
}
