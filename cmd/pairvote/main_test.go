package main

import (
	"bytes"
	"strings"
	"testing"

	"pairvote/internal/testutil"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestCommandsDriveVoting(t *testing.T) {
	t.Setenv("PAIRVOTE_LOG_LEVEL", "error")
	backend := testutil.NewBackend(t,
		testutil.Unit{ID: "p1", PromptText: "a paper boat", Models: []string{"gpt5", "gemini"}},
		testutil.Unit{ID: "p2", PromptText: "a snowy owl", Models: []string{"gemini", "gpt5"}},
	)
	global := []string{"--state-dir", t.TempDir(), "--api", backend.URL, "--storage", "file"}
	with := func(args ...string) []string { return append(append([]string{}, args...), global...) }

	if out := run(t, with("session", "init")...); !strings.Contains(out, "status=active") {
		t.Fatalf("unexpected init output: %s", out)
	}
	if out := run(t, with("next")...); !strings.Contains(out, "pair p1") || !strings.Contains(out, "a paper boat") {
		t.Fatalf("unexpected next output: %s", out)
	}
	if out := run(t, with("next")...); !strings.Contains(out, "pair p1") {
		t.Fatalf("pending pair should be shown again: %s", out)
	}
	if out := run(t, with("vote", "right")...); !strings.Contains(out, "voted gemini on p1") || !strings.Contains(out, "pair p2") {
		t.Fatalf("unexpected vote output: %s", out)
	}
	if out := run(t, with("back")...); !strings.Contains(out, "your vote: gemini") {
		t.Fatalf("unexpected back output: %s", out)
	}
	out := run(t, with("history", "list")...)
	if !strings.Contains(out, "> ") || !strings.Contains(out, "vote=gemini") || !strings.Contains(out, "vote=-") {
		t.Fatalf("unexpected history output: %s", out)
	}
	if out := run(t, with("history", "clear")...); !strings.Contains(out, "history cleared") {
		t.Fatalf("unexpected clear output: %s", out)
	}
	if out := run(t, with("history", "list")...); !strings.Contains(out, "no history") {
		t.Fatalf("history should be empty: %s", out)
	}
	if counts := backend.Counts(); counts.Creates != 1 || counts.Votes != 1 {
		t.Fatalf("unexpected backend traffic: %+v", counts)
	}
}

func TestVoteWithoutPairFails(t *testing.T) {
	t.Setenv("PAIRVOTE_LOG_LEVEL", "error")
	backend := testutil.NewBackend(t)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"vote", "left", "--state-dir", t.TempDir(), "--api", backend.URL, "--storage", "memory"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "no pair loaded") {
		t.Fatalf("expected no pair error, got %v", err)
	}
}
