package out

import (
	"context"

	"pairvote/internal/modules/voting/domain"
)

type UnitAPI interface {
	Next(ctx context.Context, sessionID string) (domain.ComparisonUnit, error)
	SubmitVote(ctx context.Context, vote domain.VoteSubmission) error
}

// SessionRef is what the engine needs to know about the client session.
type SessionRef struct {
	ID        string
	Completed bool
}

type SessionPort interface {
	// Ensure waits for any in-flight initialisation and returns a held session.
	Ensure(ctx context.Context) (SessionRef, error)
	Current() SessionRef
	Reset(ctx context.Context) (SessionRef, error)
}

// StateStore mirrors engine state to durable storage.
type StateStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
	Clear(ctx context.Context) error
}
