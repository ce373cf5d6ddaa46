package bootstrap_test

import (
	"context"
	"io"
	"testing"
	"time"

	"pairvote/internal/bootstrap"
	"pairvote/internal/platform/config"
	"pairvote/internal/testutil"
)

func newApp(t *testing.T, backend *testutil.Backend, storage string) (*bootstrap.App, config.Config) {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.APIBase = backend.URL
	cfg.Storage = storage
	cfg.RequestTimeout = 5 * time.Second
	app, err := bootstrap.New(cfg, bootstrap.Options{LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app, cfg
}

func units() []testutil.Unit {
	return []testutil.Unit{
		{ID: "p1", PromptText: "a lighthouse at dusk", Models: []string{"gpt5", "gemini"}},
		{ID: "p2", PromptText: "a bowl of ramen", Models: []string{"gemini", "gpt5"}},
	}
}

func TestVotingFlowAgainstBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := testutil.NewBackend(t, units()...)
	app, _ := newApp(t, backend, config.StorageMemory)

	snap, err := app.VotingCLI.Load(ctx)
	if err != nil || snap.Current == nil || snap.Current.ID != "p1" {
		t.Fatalf("load: %+v err=%v", snap, err)
	}
	if snap, err = app.VotingCLI.Vote(ctx, "left"); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if snap.Current.ID != "p2" || snap.History[0].Vote != "gpt5" {
		t.Fatalf("unexpected snapshot after vote: %+v", snap)
	}
	if snap, err = app.VotingCLI.Vote(ctx, "left"); err != nil || !snap.Done {
		t.Fatalf("expected done after last vote: %+v err=%v", snap, err)
	}

	votes := backend.Votes()
	if len(votes) != 2 || votes[0].WinnerModel != "gpt5" || votes[1].WinnerModel != "gemini" || votes[0].SessionID != snap.SessionID {
		t.Fatalf("unexpected backend votes: %+v", votes)
	}
	if counts := backend.Counts(); counts.Creates != 1 {
		t.Fatalf("expected one session creation, got %d", counts.Creates)
	}
}

func TestExpiredSessionIsReplacedMidVote(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := testutil.NewBackend(t, units()...)
	app, _ := newApp(t, backend, config.StorageMemory)

	snap, err := app.VotingCLI.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first := snap.SessionID
	backend.Forget(first)

	snap, err = app.VotingCLI.Vote(ctx, "right")
	if err != nil {
		t.Fatalf("vote should recover with a new session: %v", err)
	}
	if snap.SessionID == first || snap.SessionID == "" {
		t.Fatalf("expected a replacement session, got %q", snap.SessionID)
	}
	votes := backend.Votes()
	if len(votes) != 1 || votes[0].SessionID != snap.SessionID || votes[0].WinnerModel != "gemini" {
		t.Fatalf("unexpected votes: %+v", votes)
	}
}

func TestProgressSurvivesRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := testutil.NewBackend(t, units()...)
	cfg := config.Default(t.TempDir())
	cfg.APIBase = backend.URL
	cfg.RequestTimeout = 5 * time.Second

	app, err := bootstrap.New(cfg, bootstrap.Options{LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := app.VotingCLI.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := app.VotingCLI.Vote(ctx, "tie"); err != nil {
		t.Fatalf("vote: %v", err)
	}
	sessionID := app.SessionCLI.Current().SessionID
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	restarted, err := bootstrap.New(cfg, bootstrap.Options{LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("bootstrap again: %v", err)
	}
	t.Cleanup(func() { _ = restarted.Close() })
	if _, err := restarted.SessionCLI.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	snap, err := restarted.VotingCLI.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(snap.History) != 2 || snap.Current.ID != "p2" || snap.History[0].Vote != "tie" {
		t.Fatalf("progress lost across restart: %+v", snap)
	}
	if snap.SessionID != sessionID {
		t.Fatalf("session should be adopted, got %q want %q", snap.SessionID, sessionID)
	}
	if counts := backend.Counts(); counts.Creates != 1 || counts.Nexts != 2 {
		t.Fatalf("restart must not create sessions or refetch: %+v", counts)
	}
}
