package in

import (
	"context"

	votingdto "pairvote/internal/modules/voting/dto"
	votingin "pairvote/internal/modules/voting/port/in"
)

type CLIHandler struct {
	usecase votingin.Usecase
}

func NewCLIHandler(usecase votingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Load restores persisted progress and fetches a unit only when nothing is
// pending, so restarting never skips an unvoted unit.
func (h CLIHandler) Load(ctx context.Context) (votingdto.Snapshot, error) {
	snap := h.usecase.Restore(ctx)
	if n := len(snap.History); n > 0 {
		newest := snap.History[n-1]
		if !newest.Voted || newest.Unit.Terminal {
			return snap, nil
		}
	}
	return h.usecase.GetNext(ctx)
}

func (h CLIHandler) Next(ctx context.Context) (votingdto.Snapshot, error) {
	return h.usecase.GetNext(ctx)
}

func (h CLIHandler) Vote(ctx context.Context, choice string) (votingdto.Snapshot, error) {
	return h.usecase.Vote(ctx, votingdto.VoteInput{Choice: choice})
}

func (h CLIHandler) Back(ctx context.Context) votingdto.Snapshot {
	return h.usecase.GoBack(ctx)
}

func (h CLIHandler) GoTo(ctx context.Context, index int) (votingdto.Snapshot, error) {
	return h.usecase.GoTo(ctx, index)
}

func (h CLIHandler) CurrentVote() (string, bool) {
	return h.usecase.CurrentVote()
}

func (h CLIHandler) ClearHistory(ctx context.Context) votingdto.Snapshot {
	return h.usecase.ClearHistory(ctx)
}

func (h CLIHandler) Restore(ctx context.Context) votingdto.Snapshot {
	return h.usecase.Restore(ctx)
}

func (h CLIHandler) Snapshot() votingdto.Snapshot {
	return h.usecase.Snapshot()
}

func (h CLIHandler) Subscribe() (<-chan votingdto.Event, func()) {
	return h.usecase.Subscribe()
}
