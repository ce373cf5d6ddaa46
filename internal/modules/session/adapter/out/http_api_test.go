package out_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pairvote/internal/modules/session/adapter/out"
	"pairvote/internal/modules/session/domain"
	apperrors "pairvote/internal/platform/errors"
	"pairvote/internal/platform/httpapi"
	"pairvote/internal/platform/storage"
	"pairvote/internal/testutil"
)

func TestHTTPSessionAPICreateAndStatus(t *testing.T) {
	t.Parallel()
	backend := testutil.NewBackend(t)
	client, err := httpapi.New(backend.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	api := out.NewHTTPSessionAPI(client)

	sessionID, err := api.Create(context.Background())
	if err != nil || sessionID == "" {
		t.Fatalf("create: id=%q err=%v", sessionID, err)
	}
	status, err := api.Status(context.Background(), sessionID)
	if err != nil || status != domain.StatusActive {
		t.Fatalf("status: %s err=%v", status, err)
	}

	backend.SetStatus(sessionID, "completed")
	if status, _ := api.Status(context.Background(), sessionID); status != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", status)
	}

	_, err = api.Status(context.Background(), "missing")
	var statusErr *apperrors.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 404 || statusErr.Detail != "Session not found" {
		t.Fatalf("expected 404 status error with detail, got %v", err)
	}
}

func TestStorageIdentityStoreScopesClears(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewFileStore(t.TempDir())
	identity := out.NewStorageIdentityStore(store)

	if _, err := identity.LoadID(ctx); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := identity.SaveID(ctx, "sess-1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := storage.SetJSON(ctx, store, storage.KeyHistory, []string{"kept"}); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	if err := identity.ClearIdentity(ctx); err != nil {
		t.Fatalf("clear identity: %v", err)
	}
	if _, err := identity.LoadID(ctx); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("identity should be gone, got %v", err)
	}
	if _, err := store.Get(ctx, storage.KeyHistory); err != nil {
		t.Fatalf("clear identity must keep history: %v", err)
	}

	if err := identity.ClearAll(ctx); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if _, err := store.Get(ctx, storage.KeyHistory); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("clear all must remove history, got %v", err)
	}
}
