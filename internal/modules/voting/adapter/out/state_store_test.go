package out_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pairvote/internal/modules/voting/adapter/out"
	"pairvote/internal/modules/voting/domain"
	apperrors "pairvote/internal/platform/errors"
	"pairvote/internal/platform/storage"
)

func TestStorageStateStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sqlite, err := storage.NewSQLiteStore(t.TempDir() + "/state.db")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	store := out.NewStorageStateStore(sqlite)

	empty, err := store.Load(ctx)
	if err != nil || len(empty.History.Entries) != 0 || empty.History.Cursor != domain.Latest || empty.CurrentUnit != nil {
		t.Fatalf("empty load: %+v err=%v", empty, err)
	}

	u1 := domain.ComparisonUnit{ID: "u1", Options: []domain.Option{{URL: "a", ModelLabel: "gpt5"}, {URL: "b", ModelLabel: "gemini"}}}
	u2 := domain.ComparisonUnit{ID: "u2", Options: []domain.Option{{URL: "c", ModelLabel: "gemini"}, {URL: "d", ModelLabel: "gpt5"}}}
	history := domain.NewHistory()
	history.Append(u1)
	history.RecordVote(0, "gpt5")
	history.Append(u2)
	if err := history.MoveTo(0); err != nil {
		t.Fatalf("move: %v", err)
	}
	shown := time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)
	state := domain.State{History: history, Timestamps: domain.DisplayTimestamps{"u1": shown}, CurrentUnit: &u1}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.History.Entries) != 2 || got.History.Cursor != 0 || got.CurrentUnit == nil || got.CurrentUnit.ID != "u1" {
		t.Fatalf("unexpected state: %+v", got)
	}
	if !got.History.Entries[0].Voted() || *got.History.Entries[0].Vote != "gpt5" || got.History.Entries[1].Voted() {
		t.Fatalf("votes lost: %+v", got.History.Entries)
	}
	if winner, _ := got.History.Entries[1].Choices.Resolve("left"); winner != "gemini" {
		t.Fatalf("choice map lost, left=%q", winner)
	}
	if !got.Timestamps["u1"].Equal(shown) {
		t.Fatalf("timestamp lost: %v", got.Timestamps)
	}

	state.CurrentUnit = nil
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save without current: %v", err)
	}
	if _, err := sqlite.Get(ctx, storage.KeyCurrentUnit); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("current unit should be deleted, got %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cleared, err := store.Load(ctx)
	if err != nil || len(cleared.History.Entries) != 0 || len(cleared.Timestamps) != 0 {
		t.Fatalf("clear left state behind: %+v err=%v", cleared, err)
	}
}
