package out

import (
	"context"

	sessiondto "pairvote/internal/modules/session/dto"
	sessionin "pairvote/internal/modules/session/port/in"
	votingout "pairvote/internal/modules/voting/port/out"
)

type SessionAdapter struct {
	session sessionin.Usecase
}

func NewSessionAdapter(session sessionin.Usecase) votingout.SessionPort {
	return &SessionAdapter{session: session}
}

func (a *SessionAdapter) Ensure(ctx context.Context) (votingout.SessionRef, error) {
	out, err := a.session.Ensure(ctx)
	if err != nil {
		return votingout.SessionRef{}, err
	}
	return toRef(out), nil
}

func (a *SessionAdapter) Current() votingout.SessionRef {
	return toRef(a.session.Current())
}

func (a *SessionAdapter) Reset(ctx context.Context) (votingout.SessionRef, error) {
	out, err := a.session.Reset(ctx)
	if err != nil {
		return votingout.SessionRef{}, err
	}
	return toRef(out), nil
}

func toRef(out sessiondto.SessionOutput) votingout.SessionRef {
	return votingout.SessionRef{ID: out.SessionID, Completed: out.Completed}
}
