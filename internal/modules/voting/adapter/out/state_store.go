package out

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pairvote/internal/modules/voting/domain"
	votingout "pairvote/internal/modules/voting/port/out"
	"pairvote/internal/platform/storage"
)

type StorageStateStore struct {
	store storage.Store
}

func NewStorageStateStore(store storage.Store) votingout.StateStore {
	return &StorageStateStore{store: store}
}

func (s *StorageStateStore) Load(ctx context.Context) (domain.State, error) {
	state := domain.State{History: domain.NewHistory(), Timestamps: domain.DisplayTimestamps{}}

	entries := []domain.HistoryEntry{}
	if _, err := storage.GetJSON(ctx, s.store, storage.KeyHistory, &entries); err != nil {
		return domain.State{}, fmt.Errorf("load history: %w", err)
	}
	state.History.Entries = entries

	cursor := domain.Latest
	if _, err := storage.GetJSON(ctx, s.store, storage.KeyHistoryCursor, &cursor); err != nil {
		return domain.State{}, fmt.Errorf("load history cursor: %w", err)
	}
	state.History.Cursor = cursor

	shown := map[string]time.Time{}
	if _, err := storage.GetJSON(ctx, s.store, storage.KeyDisplayStart, &shown); err != nil {
		return domain.State{}, fmt.Errorf("load display timestamps: %w", err)
	}
	state.Timestamps = shown

	var current domain.ComparisonUnit
	ok, err := storage.GetJSON(ctx, s.store, storage.KeyCurrentUnit, &current)
	if err != nil {
		return domain.State{}, fmt.Errorf("load current unit: %w", err)
	}
	if ok {
		state.CurrentUnit = &current
	}
	return state, nil
}

// Save writes every key even when one fails so a single bad write does not
// leave the rest of the mirror stale.
func (s *StorageStateStore) Save(ctx context.Context, state domain.State) error {
	entries := state.History.Entries
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	errs := []error{
		storage.SetJSON(ctx, s.store, storage.KeyHistory, entries),
		storage.SetJSON(ctx, s.store, storage.KeyHistoryCursor, state.History.Cursor),
		storage.SetJSON(ctx, s.store, storage.KeyDisplayStart, state.Timestamps),
	}
	if state.CurrentUnit != nil {
		errs = append(errs, storage.SetJSON(ctx, s.store, storage.KeyCurrentUnit, state.CurrentUnit))
	} else {
		errs = append(errs, s.store.Delete(ctx, storage.KeyCurrentUnit))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("save voting state: %w", err)
	}
	return nil
}

func (s *StorageStateStore) Clear(ctx context.Context) error {
	keys := append([]string{storage.KeyCurrentUnit, storage.KeyDisplayStart}, storage.ProgressKeys...)
	if err := s.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear voting state: %w", err)
	}
	return nil
}
