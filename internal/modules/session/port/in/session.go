package in

import (
	"context"

	"pairvote/internal/modules/session/dto"
)

type Usecase interface {
	Init(ctx context.Context) (dto.SessionOutput, error)
	Ensure(ctx context.Context) (dto.SessionOutput, error)
	Validate(ctx context.Context, sessionID string) (dto.ValidateOutput, error)
	Refresh(ctx context.Context) (dto.SessionOutput, error)
	Reset(ctx context.Context) (dto.SessionOutput, error)
	Clear(ctx context.Context) error
	Current() dto.SessionOutput
	Initializing() bool
}
