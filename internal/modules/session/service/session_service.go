package service

import (
	"context"
	"errors"

	hclog "github.com/hashicorp/go-hclog"

	"pairvote/internal/modules/session/domain"
	sessionout "pairvote/internal/modules/session/port/out"
	apperrors "pairvote/internal/platform/errors"
	"pairvote/internal/platform/id"
	"pairvote/internal/platform/logging"
)

type SessionService struct {
	api    sessionout.API
	idGen  id.Generator
	logger hclog.Logger
}

func NewSessionService(api sessionout.API, idGen id.Generator, logger hclog.Logger) *SessionService {
	return &SessionService{api: api, idGen: idGen, logger: logging.Resolve(logger)}
}

// Create asks the backend for a new session and falls back to a local id
// when the backend is unreachable or refuses.
func (s *SessionService) Create(ctx context.Context) domain.Session {
	sessionID, err := s.api.Create(ctx)
	if err == nil && sessionID != "" {
		return domain.Session{ID: sessionID, Status: domain.StatusActive}
	}
	if err == nil {
		err = errors.New("empty session id")
	}
	fallback := s.idGen.New()
	s.logger.Warn("session create failed, using local id", "error", err, "session_id", fallback)
	return domain.Session{ID: fallback, Status: domain.StatusUnknown, Offline: true}
}

// Validate queries the backend. Any failure counts as not usable.
func (s *SessionService) Validate(ctx context.Context, sessionID string) (domain.Status, bool) {
	if sessionID == "" {
		return domain.StatusUnknown, false
	}
	status, err := s.api.Status(ctx, sessionID)
	if err != nil {
		var statusErr *apperrors.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == 404 {
			status = domain.StatusNotFound
		} else {
			status = domain.StatusUnknown
		}
		s.logger.Debug("session status query failed", "session_id", sessionID, "error", err)
		return status, false
	}
	return status, status.Usable()
}
