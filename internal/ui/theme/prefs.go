package theme

import (
	"context"
	"fmt"

	"pairvote/internal/platform/storage"
)

// Store persists the colour mode next to the rest of the client state.
type Store struct {
	store storage.Store
}

func NewStore(store storage.Store) *Store {
	return &Store{store: store}
}

// Load returns the saved mode, or fallback when none is saved or it cannot be read.
func (s *Store) Load(ctx context.Context, fallback Mode) Mode {
	var raw string
	ok, err := storage.GetJSON(ctx, s.store, storage.KeyColorMode, &raw)
	if err != nil || !ok {
		return fallback
	}
	return ParseMode(raw)
}

func (s *Store) Save(ctx context.Context, mode Mode) error {
	if err := storage.SetJSON(ctx, s.store, storage.KeyColorMode, string(mode)); err != nil {
		return fmt.Errorf("save color mode: %w", err)
	}
	return nil
}
