package theme_test

import (
	"context"
	"testing"

	"pairvote/internal/platform/storage"
	"pairvote/internal/ui/theme"
)

func TestStoreRoundTripsMode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	prefs := theme.NewStore(storage.NewMemoryStore())

	if got := prefs.Load(ctx, theme.Dark); got != theme.Dark {
		t.Fatalf("expected fallback, got %s", got)
	}
	if err := prefs.Save(ctx, theme.Dark.Toggle()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := prefs.Load(ctx, theme.Dark); got != theme.Light {
		t.Fatalf("expected light, got %s", got)
	}
}

func TestParseModeDefaultsToDark(t *testing.T) {
	t.Parallel()
	if theme.ParseMode("neon") != theme.Dark || theme.ParseMode("light") != theme.Light {
		t.Fatalf("unexpected mode parsing")
	}
}
