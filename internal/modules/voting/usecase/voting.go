package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"pairvote/internal/modules/voting/domain"
	votingdto "pairvote/internal/modules/voting/dto"
	votingin "pairvote/internal/modules/voting/port/in"
	votingout "pairvote/internal/modules/voting/port/out"
	"pairvote/internal/modules/voting/service"
	apperrors "pairvote/internal/platform/errors"
	"pairvote/internal/platform/logging"
)

const (
	loadFailedMessage = "Failed to load next pair"
	voteFailedMessage = "Failed to submit vote"
	eventBuffer       = 32
)

// Interactor is the voting engine. In-memory state is authoritative; every
// transition is mirrored to the state store on a best-effort basis.
type Interactor struct {
	svc     *service.VotingService
	session votingout.SessionPort
	store   votingout.StateStore
	logger  hclog.Logger

	mu      sync.Mutex
	history domain.History
	shown   domain.DisplayTimestamps
	done    bool
	busy    bool
	errMsg  string
	subs    map[int]chan votingdto.Event
	nextSub int
}

func NewInteractor(svc *service.VotingService, session votingout.SessionPort, store votingout.StateStore, logger hclog.Logger) votingin.Usecase {
	return &Interactor{
		svc:     svc,
		session: session,
		store:   store,
		logger:  logging.Resolve(logger).Named("voting"),
		history: domain.NewHistory(),
		shown:   domain.DisplayTimestamps{},
		subs:    map[int]chan votingdto.Event{},
	}
}

func (i *Interactor) GetNext(ctx context.Context) (votingdto.Snapshot, error) {
	if !i.begin() {
		return i.Snapshot(), apperrors.ErrBusy
	}
	err := i.fetchNext(ctx, 0)
	i.end()
	return i.finish(err, loadFailedMessage)
}

func (i *Interactor) Vote(ctx context.Context, input votingdto.VoteInput) (votingdto.Snapshot, error) {
	if !i.begin() {
		return i.Snapshot(), apperrors.ErrBusy
	}
	err := i.vote(ctx, strings.TrimSpace(input.Choice), 0)
	i.end()
	return i.finish(err, voteFailedMessage)
}

func (i *Interactor) GoBack(ctx context.Context) votingdto.Snapshot {
	i.mu.Lock()
	idx := i.history.Resolve()
	if idx <= 0 {
		i.mu.Unlock()
		return i.Snapshot()
	}
	_ = i.history.MoveTo(idx - 1)
	i.markCurrentLocked()
	i.persistLocked(ctx)
	i.mu.Unlock()

	i.emit(votingdto.Event{Kind: votingdto.EventCheckpoint, Index: idx - 1})
	return i.Snapshot()
}

// GoTo moves the cursor to an existing entry, the way a platform
// back/forward gesture replays a checkpoint.
func (i *Interactor) GoTo(ctx context.Context, index int) (votingdto.Snapshot, error) {
	i.mu.Lock()
	if err := i.history.MoveTo(index); err != nil {
		i.mu.Unlock()
		return i.Snapshot(), fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	i.markCurrentLocked()
	i.persistLocked(ctx)
	i.mu.Unlock()

	i.emit(votingdto.Event{Kind: votingdto.EventCursorMoved, Index: index})
	return i.Snapshot(), nil
}

func (i *Interactor) CurrentVote() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	entry, _, ok := i.history.Current()
	if !ok || !entry.Voted() {
		return "", false
	}
	return *entry.Vote, true
}

func (i *Interactor) ClearHistory(ctx context.Context) votingdto.Snapshot {
	i.mu.Lock()
	i.history = domain.NewHistory()
	i.shown = domain.DisplayTimestamps{}
	i.done = false
	i.errMsg = ""
	if err := i.store.Clear(context.WithoutCancel(ctx)); err != nil {
		i.logger.Warn("clear persisted history", "error", err)
	}
	i.mu.Unlock()

	i.emit(votingdto.Event{Kind: votingdto.EventCleared})
	return i.Snapshot()
}

// Restore reloads the persisted mirror, e.g. after a restart.
func (i *Interactor) Restore(ctx context.Context) votingdto.Snapshot {
	state, err := i.store.Load(ctx)
	if err != nil {
		i.logger.Warn("load persisted voting state", "error", err)
		return i.Snapshot()
	}

	i.mu.Lock()
	i.history = state.History
	i.history.Normalize()
	i.shown = state.Timestamps
	if i.shown == nil {
		i.shown = domain.DisplayTimestamps{}
	}
	if len(i.history.Entries) == 0 && state.CurrentUnit != nil {
		i.history.Append(*state.CurrentUnit)
		i.markCurrentLocked()
	}
	newest, ok := i.history.Newest()
	i.done = ok && newest.Unit.IsTerminal
	count := len(i.history.Entries)
	i.mu.Unlock()

	i.logger.Debug("restored voting state", "entries", count)
	return i.Snapshot()
}

func (i *Interactor) Snapshot() votingdto.Snapshot {
	sessionID := i.session.Current().ID
	i.mu.Lock()
	defer i.mu.Unlock()
	snap := i.snapshotLocked()
	snap.SessionID = sessionID
	return snap
}

// Subscribe returns a buffered event channel and its cancel func. Slow
// subscribers miss events rather than block the engine.
func (i *Interactor) Subscribe() (<-chan votingdto.Event, func()) {
	ch := make(chan votingdto.Event, eventBuffer)
	i.mu.Lock()
	id := i.nextSub
	i.nextSub++
	i.subs[id] = ch
	i.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			i.mu.Lock()
			delete(i.subs, id)
			close(ch)
			i.mu.Unlock()
		})
	}
}

func (i *Interactor) fetchNext(ctx context.Context, attempt int) error {
	sess, err := i.session.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	if sess.Completed {
		i.mu.Lock()
		i.done = true
		i.mu.Unlock()
		i.emit(votingdto.Event{Kind: votingdto.EventDone})
		return nil
	}
	if idx, ok := i.returnToPending(ctx); ok {
		i.emit(votingdto.Event{Kind: votingdto.EventCursorMoved, Index: idx})
		return nil
	}

	unit, err := i.svc.Next(ctx, sess.ID)
	if err != nil {
		if attempt == 0 && apperrors.IsSessionError(err) {
			if err := i.recoverSession(ctx, sess.ID, err); err != nil {
				return err
			}
			return i.fetchNext(ctx, attempt+1)
		}
		return fmt.Errorf("fetch next unit: %w", err)
	}
	if current := i.session.Current(); current.ID != sess.ID {
		i.logger.Debug("discarding unit fetched for a replaced session", "unit_id", unit.ID, "session_id", sess.ID)
		return nil
	}

	i.mu.Lock()
	idx, appended := i.appendLocked(unit)
	i.persistLocked(ctx)
	done := i.done
	i.mu.Unlock()

	if appended {
		i.emit(votingdto.Event{Kind: votingdto.EventUnitLoaded, Index: idx})
		i.emit(votingdto.Event{Kind: votingdto.EventCheckpoint, Index: idx})
	} else {
		i.emit(votingdto.Event{Kind: votingdto.EventCursorMoved, Index: idx})
	}
	if done {
		i.emit(votingdto.Event{Kind: votingdto.EventDone})
	}
	return nil
}

func (i *Interactor) vote(ctx context.Context, choice string, attempt int) error {
	i.mu.Lock()
	entry, idx, ok := i.history.Current()
	i.mu.Unlock()
	if !ok {
		return nil
	}
	if i.session.Current().Completed {
		return apperrors.ErrSessionCompleted
	}
	sess, err := i.session.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	if sess.Completed {
		return apperrors.ErrSessionCompleted
	}

	i.mu.Lock()
	submission, err := i.svc.BuildSubmission(sess.ID, entry, choice, i.shown)
	i.mu.Unlock()
	if err != nil {
		return err
	}

	if err := i.svc.Submit(ctx, submission); err != nil {
		if attempt == 0 && apperrors.IsSessionError(err) {
			if err := i.recoverSession(ctx, sess.ID, err); err != nil {
				return err
			}
			return i.vote(ctx, choice, attempt+1)
		}
		return fmt.Errorf("submit vote: %w", err)
	}
	if current := i.session.Current(); current.ID != sess.ID {
		i.logger.Debug("discarding vote result for a replaced session", "unit_id", entry.Unit.ID, "session_id", sess.ID)
		return nil
	}

	i.mu.Lock()
	if idx >= len(i.history.Entries) || i.history.Entries[idx].Unit.ID != entry.Unit.ID {
		i.mu.Unlock()
		i.logger.Debug("history changed while vote was in flight", "unit_id", entry.Unit.ID)
		return nil
	}
	i.history.RecordVote(idx, submission.Winner)
	atNewest := idx == len(i.history.Entries)-1
	if !atNewest {
		_ = i.history.MoveTo(idx + 1)
		i.markCurrentLocked()
	}
	i.persistLocked(ctx)
	i.mu.Unlock()

	i.logger.Debug("vote recorded", "unit_id", submission.UnitID, "winner", submission.Winner, "reaction_ms", submission.ReactionTimeMs)
	i.emit(votingdto.Event{Kind: votingdto.EventVoteRecorded, Index: idx})
	if atNewest {
		return i.fetchNext(ctx, 0)
	}
	i.emit(votingdto.Event{Kind: votingdto.EventCursorMoved, Index: idx + 1})
	return nil
}

func (i *Interactor) recoverSession(ctx context.Context, sessionID string, cause error) error {
	i.logger.Info("backend rejected session, resetting", "session_id", sessionID, "error", cause)
	if _, err := i.session.Reset(ctx); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	i.emit(votingdto.Event{Kind: votingdto.EventSessionReset})
	return nil
}

// returnToPending moves the cursor back to the newest entry when it is still
// waiting for a vote. A unit is only appended once its predecessor is voted.
func (i *Interactor) returnToPending(ctx context.Context) (int, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	newest, ok := i.history.Newest()
	if !ok || newest.Voted() || newest.Unit.IsTerminal {
		return 0, false
	}
	i.history.Cursor = domain.Latest
	i.markCurrentLocked()
	i.persistLocked(ctx)
	return len(i.history.Entries) - 1, true
}

// appendLocked adds unit unless the backend re-served the pending newest
// unit, in which case the cursor just returns to it.
func (i *Interactor) appendLocked(unit domain.ComparisonUnit) (int, bool) {
	i.done = unit.IsTerminal
	if newest, ok := i.history.Newest(); ok && !newest.Voted() && newest.Unit.ID == unit.ID {
		i.history.Cursor = domain.Latest
		i.markCurrentLocked()
		return len(i.history.Entries) - 1, false
	}
	idx := i.history.Append(unit)
	i.markCurrentLocked()
	return idx, true
}

func (i *Interactor) markCurrentLocked() {
	entry, _, ok := i.history.Current()
	if !ok || entry.Unit.IsTerminal {
		return
	}
	i.shown.Mark(entry.Unit.ID, i.svc.Now())
}

func (i *Interactor) persistLocked(ctx context.Context) {
	state := domain.State{History: i.history, Timestamps: i.shown}
	if entry, _, ok := i.history.Current(); ok {
		unit := entry.Unit
		state.CurrentUnit = &unit
	}
	if err := i.store.Save(context.WithoutCancel(ctx), state); err != nil {
		i.logger.Warn("persist voting state", "error", err)
	}
}

func (i *Interactor) begin() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.busy {
		return false
	}
	i.busy = true
	i.errMsg = ""
	return true
}

func (i *Interactor) end() {
	i.mu.Lock()
	i.busy = false
	i.mu.Unlock()
}

func (i *Interactor) finish(err error, fallback string) (votingdto.Snapshot, error) {
	if err != nil {
		msg := apperrors.Message(err, fallback)
		i.mu.Lock()
		i.errMsg = msg
		i.mu.Unlock()
		i.logger.Warn("voting operation failed", "error", err)
		i.emit(votingdto.Event{Kind: votingdto.EventError, Message: msg})
	}
	return i.Snapshot(), err
}

func (i *Interactor) emit(event votingdto.Event) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, ch := range i.subs {
		select {
		case ch <- event:
		default:
			i.logger.Trace("event dropped for slow subscriber", "kind", event.Kind)
		}
	}
}

func (i *Interactor) snapshotLocked() votingdto.Snapshot {
	snap := votingdto.Snapshot{
		Cursor:   i.history.Resolve(),
		AtNewest: i.history.AtNewest(),
		Loading:  i.busy,
		Error:    i.errMsg,
		History:  make([]votingdto.EntryView, 0, len(i.history.Entries)),
	}
	for _, entry := range i.history.Entries {
		view := votingdto.EntryView{Unit: toUnitView(entry.Unit), Voted: entry.Voted(), ShownAt: i.shown[entry.Unit.ID]}
		if entry.Voted() {
			view.Vote = *entry.Vote
		}
		snap.History = append(snap.History, view)
	}
	if snap.Cursor >= 0 {
		current := snap.History[snap.Cursor]
		snap.Current = &current.Unit
		snap.CurrentVote = current.Vote
		snap.HasVote = current.Voted
	}
	snap.Done = i.done && snap.AtNewest
	return snap
}

func toUnitView(unit domain.ComparisonUnit) votingdto.UnitView {
	options := make([]votingdto.OptionView, 0, len(unit.Options))
	for _, option := range unit.Options {
		options = append(options, votingdto.OptionView{ID: option.ID, URL: option.URL, ModelLabel: option.ModelLabel})
	}
	return votingdto.UnitView{
		ID:            unit.ID,
		PromptText:    unit.PromptText,
		Options:       options,
		SequenceIndex: unit.SequenceIndex,
		TotalCount:    unit.TotalCount,
		Terminal:      unit.IsTerminal,
	}
}
