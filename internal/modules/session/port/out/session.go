package out

import (
	"context"

	"pairvote/internal/modules/session/domain"
)

// API is the backend's session surface.
type API interface {
	Create(ctx context.Context) (string, error)
	Status(ctx context.Context, sessionID string) (domain.Status, error)
}

// IdentityStore mirrors the session id into durable client storage.
type IdentityStore interface {
	// LoadID returns apperrors.ErrNoSession when nothing is persisted.
	LoadID(ctx context.Context) (string, error)
	SaveID(ctx context.Context, sessionID string) error
	// ClearIdentity drops the id and the unit/timing cache tied to it.
	ClearIdentity(ctx context.Context) error
	// ClearAll also drops persisted voting progress.
	ClearAll(ctx context.Context) error
}
