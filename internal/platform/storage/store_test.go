package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "pairvote/internal/platform/errors"
	"pairvote/internal/platform/storage"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func backends(t *testing.T) map[string]storage.Store {
	t.Helper()
	dir := t.TempDir()
	sqliteStore, err := storage.NewSQLiteStore(filepath.Join(dir, "state", "pairvote.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })
	return map[string]storage.Store{
		"sqlite": sqliteStore,
		"file":   storage.NewFileStore(filepath.Join(dir, "file")),
		"memory": storage.NewMemoryStore(),
	}
}

func TestStoresRoundTripAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, store := range backends(t) {
		if _, err := store.Get(ctx, storage.KeyHistory); !errors.Is(err, apperrors.ErrNotFound) {
			t.Fatalf("%s: expected not found for missing key, got %v", name, err)
		}
		if err := storage.SetJSON(ctx, store, storage.KeyHistory, record{Name: "a", Count: 2}); err != nil {
			t.Fatalf("%s: set: %v", name, err)
		}
		if err := storage.SetJSON(ctx, store, storage.KeyHistory, record{Name: "b", Count: 3}); err != nil {
			t.Fatalf("%s: overwrite: %v", name, err)
		}
		var got record
		ok, err := storage.GetJSON(ctx, store, storage.KeyHistory, &got)
		if err != nil || !ok {
			t.Fatalf("%s: get: ok=%v err=%v", name, ok, err)
		}
		if got != (record{Name: "b", Count: 3}) {
			t.Fatalf("%s: unexpected value %+v", name, got)
		}
		if err := storage.SetJSON(ctx, store, storage.KeySessionID, "sess-1"); err != nil {
			t.Fatalf("%s: set session: %v", name, err)
		}
		if err := store.Delete(ctx, storage.KeyHistory, storage.KeySessionID, "never-set"); err != nil {
			t.Fatalf("%s: delete: %v", name, err)
		}
		ok, err = storage.GetJSON(ctx, store, storage.KeySessionID, new(string))
		if err != nil || ok {
			t.Fatalf("%s: expected deleted key, ok=%v err=%v", name, ok, err)
		}
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	if err := storage.SetJSON(ctx, storage.NewFileStore(dir), storage.KeyHistoryCursor, 4); err != nil {
		t.Fatalf("set: %v", err)
	}
	var cursor int
	ok, err := storage.GetJSON(ctx, storage.NewFileStore(dir), storage.KeyHistoryCursor, &cursor)
	if err != nil || !ok || cursor != 4 {
		t.Fatalf("expected cursor 4 from a fresh instance, got %d ok=%v err=%v", cursor, ok, err)
	}
}

func TestGetJSONReportsCorruptValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	if err := store.Set(ctx, storage.KeyHistory, []byte("{not json")); err != nil {
		t.Fatalf("set raw: %v", err)
	}
	if _, err := storage.GetJSON(ctx, store, storage.KeyHistory, &record{}); err == nil {
		t.Fatalf("corrupt value should fail to decode")
	}
}
