package in

import (
	"context"

	sessiondto "pairvote/internal/modules/session/dto"
	sessionin "pairvote/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Init(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.Init(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (sessiondto.SessionOutput, error) {
	if _, err := h.usecase.Init(ctx); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return h.usecase.Refresh(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}

func (h CLIHandler) Current() sessiondto.SessionOutput {
	return h.usecase.Current()
}
