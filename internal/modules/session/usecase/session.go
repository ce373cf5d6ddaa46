package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"

	"pairvote/internal/modules/session/domain"
	sessiondto "pairvote/internal/modules/session/dto"
	sessionin "pairvote/internal/modules/session/port/in"
	sessionout "pairvote/internal/modules/session/port/out"
	"pairvote/internal/modules/session/service"
	apperrors "pairvote/internal/platform/errors"
	"pairvote/internal/platform/logging"
)

// Interactor is the session manager. It holds the one session of this
// client and serialises initialisation: concurrent Init/Ensure callers share
// a single in-flight run.
type Interactor struct {
	svc    *service.SessionService
	store  sessionout.IdentityStore
	logger hclog.Logger

	group singleflight.Group

	mu           sync.Mutex
	current      domain.Session
	generation   uint64
	initializing int
}

func NewInteractor(svc *service.SessionService, store sessionout.IdentityStore, logger hclog.Logger) sessionin.Usecase {
	return &Interactor{
		svc:     svc,
		store:   store,
		logger:  logging.Resolve(logger).Named("session"),
		current: domain.Session{Status: domain.StatusUnknown},
	}
}

// Init is idempotent: a held session is returned as is, otherwise the caller
// joins (or starts) the single in-flight initialisation.
func (i *Interactor) Init(ctx context.Context) (sessiondto.SessionOutput, error) {
	i.mu.Lock()
	gen := i.generation
	current := i.current
	if !current.Held() {
		i.initializing++
	}
	i.mu.Unlock()
	if current.Held() {
		return toOutput(current), nil
	}
	defer func() {
		i.mu.Lock()
		i.initializing--
		i.mu.Unlock()
	}()

	// The run outlives any single caller's cancellation; callers just stop waiting.
	runCtx := context.WithoutCancel(ctx)
	ch := i.group.DoChan(fmt.Sprintf("init-%d", gen), func() (any, error) {
		return i.runInit(runCtx, gen), nil
	})
	select {
	case res := <-ch:
		return toOutput(res.Val.(domain.Session)), nil
	case <-ctx.Done():
		return sessiondto.SessionOutput{}, ctx.Err()
	}
}

func (i *Interactor) runInit(ctx context.Context, gen uint64) domain.Session {
	persisted, err := i.store.LoadID(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNoSession) {
		i.logger.Warn("load persisted session id", "error", err)
	}
	if persisted != "" {
		status, ok := i.svc.Validate(ctx, persisted)
		if ok {
			return i.adopt(ctx, gen, domain.Session{ID: persisted, Status: status}, false)
		}
		i.logger.Info("persisted session unusable", "session_id", persisted, "status", status)
		i.clearIdentity(ctx, gen)
	}
	return i.adopt(ctx, gen, i.svc.Create(ctx), true)
}

// clearIdentity drops the persisted id unless gen was superseded.
func (i *Interactor) clearIdentity(ctx context.Context, gen uint64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if gen != i.generation {
		return
	}
	if err := i.store.ClearIdentity(ctx); err != nil {
		i.logger.Warn("clear stale session id", "error", err)
	}
}

// adopt installs session unless a reset or clear started a newer generation
// meanwhile. A superseded result is neither held nor persisted.
func (i *Interactor) adopt(ctx context.Context, gen uint64, session domain.Session, persist bool) domain.Session {
	i.mu.Lock()
	defer i.mu.Unlock()
	if gen != i.generation {
		i.logger.Debug("discarding superseded init result", "session_id", session.ID)
		return session
	}
	if persist {
		if err := i.store.SaveID(ctx, session.ID); err != nil {
			i.logger.Warn("persist session id", "error", err)
		}
	}
	i.current = session
	i.logger.Debug("session ready", "session_id", session.ID, "status", session.Status, "offline", session.Offline)
	return session
}

// Ensure blocks until a session is held, waiting on an in-flight
// initialisation instead of polling for it.
func (i *Interactor) Ensure(ctx context.Context) (sessiondto.SessionOutput, error) {
	return i.Init(ctx)
}

// Initializing reports whether a caller is waiting on an initialisation run.
func (i *Interactor) Initializing() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.initializing > 0
}

func (i *Interactor) Validate(ctx context.Context, sessionID string) (sessiondto.ValidateOutput, error) {
	if sessionID == "" {
		return sessiondto.ValidateOutput{}, apperrors.ErrInvalidInput
	}
	status, ok := i.svc.Validate(ctx, sessionID)
	i.mu.Lock()
	if i.current.ID == sessionID {
		i.current.Status = i.current.Status.Next(status)
	}
	i.mu.Unlock()
	return sessiondto.ValidateOutput{SessionID: sessionID, Status: string(status), Usable: ok}, nil
}

func (i *Interactor) Refresh(ctx context.Context) (sessiondto.SessionOutput, error) {
	current := i.Current()
	if current.SessionID == "" {
		return sessiondto.SessionOutput{}, apperrors.ErrNoSession
	}
	if _, err := i.Validate(ctx, current.SessionID); err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.Current(), nil
}

// Reset lets an in-flight initialisation settle first, so the run it
// supersedes cannot create or persist a session behind its back.
func (i *Interactor) Reset(ctx context.Context) (sessiondto.SessionOutput, error) {
	if i.Initializing() {
		if _, err := i.Init(ctx); err != nil {
			return sessiondto.SessionOutput{}, err
		}
	}
	i.mu.Lock()
	i.generation++
	previous := i.current.ID
	i.current = domain.Session{Status: domain.StatusUnknown}
	if err := i.store.ClearAll(ctx); err != nil {
		i.logger.Warn("clear persisted session state", "error", err)
	}
	i.mu.Unlock()
	i.logger.Info("session reset", "previous", previous)
	return i.Init(ctx)
}

func (i *Interactor) Clear(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.generation++
	i.current = domain.Session{Status: domain.StatusUnknown}
	if err := i.store.ClearIdentity(ctx); err != nil {
		i.logger.Warn("clear session identity", "error", err)
	}
	return nil
}

func (i *Interactor) Current() sessiondto.SessionOutput {
	i.mu.Lock()
	defer i.mu.Unlock()
	return toOutput(i.current)
}

func toOutput(session domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		SessionID: session.ID,
		Status:    string(session.Status),
		Offline:   session.Offline,
		Usable:    session.Status.Usable(),
		Completed: session.Status == domain.StatusCompleted,
	}
}
