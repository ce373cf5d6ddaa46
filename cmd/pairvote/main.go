package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"pairvote/internal/bootstrap"
	votingdto "pairvote/internal/modules/voting/dto"
	"pairvote/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	stateDir   string
	configPath string
	apiBase    string
	storage    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "pairvote",
		Short:         "Vote on pairs of generated images",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.stateDir, "state-dir", defaultStateDir(), "directory for local client state")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <state-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&flags.apiBase, "api", "", "backend base URL")
	root.PersistentFlags().StringVar(&flags.storage, "storage", "", "state backend: sqlite|file|memory")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "trace|debug|info|warn|error")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newNextCmd(flags))
	root.AddCommand(newVoteCmd(flags))
	root.AddCommand(newBackCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	return root
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pairvote")
	}
	return ".pairvote"
}

func loadApp(flags *globalFlags) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.stateDir, flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.apiBase != "" {
		cfg.APIBase = flags.apiBase
	}
	if flags.storage != "" {
		cfg.Storage = flags.storage
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return bootstrap.New(cfg, bootstrap.Options{})
}

// withApp assembles the app for one command and closes its storage after.
func withApp(flags *globalFlags, run func(app *bootstrap.App) error) error {
	app, err := loadApp(flags)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return run(app)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive voting UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fd := os.Stdout.Fd()
			if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
				return errors.New("tui needs an interactive terminal; use next/vote/back instead")
			}
			return withApp(flags, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(cmd.Context(), app)
			})
		},
	}
}

func newSessionCmd(flags *globalFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Client session commands"}

	session.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Adopt the stored session or create a new one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Init(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s status=%s offline=%t\n", out.SessionID, out.Status, out.Offline)
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the backend status of the held session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Status(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s status=%s usable=%t completed=%t offline=%t\n",
					out.SessionID, out.Status, out.Usable, out.Completed, out.Offline)
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Discard the session and its progress and start a new one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Reset(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "new session %s status=%s offline=%t\n", out.SessionID, out.Status, out.Offline)
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the stored session id without contacting the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				if err := app.SessionCLI.Clear(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
				return nil
			})
		},
	})
	return session
}

func newNextCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the pending pair, fetching one when none is pending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				snap, err := app.VotingCLI.Load(cmd.Context())
				if err != nil {
					return errors.New(snapError(snap, err))
				}
				printSnapshot(cmd.OutOrStdout(), snap)
				return nil
			})
		},
	}
}

func newVoteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <left|right|tie|1|2>",
		Short: "Vote on the pair under the cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				restored := app.VotingCLI.Restore(cmd.Context())
				if restored.Current == nil {
					return errors.New("no pair loaded; run `pairvote next` first")
				}
				snap, err := app.VotingCLI.Vote(cmd.Context(), strings.ToLower(args[0]))
				if err != nil {
					return errors.New(snapError(snap, err))
				}
				if n := len(snap.History); n > 0 && snap.Cursor > 0 {
					prev := snap.History[snap.Cursor-1]
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "voted %s on %s\n", prev.Vote, prev.Unit.ID)
				}
				printSnapshot(cmd.OutOrStdout(), snap)
				return nil
			})
		},
	}
}

func newBackCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "back",
		Short: "Move the cursor to the previous pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				app.VotingCLI.Restore(cmd.Context())
				printSnapshot(cmd.OutOrStdout(), app.VotingCLI.Back(cmd.Context()))
				return nil
			})
		},
	}
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Voting history commands"}

	history.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every pair shown in this client",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				snap := app.VotingCLI.Restore(cmd.Context())
				if len(snap.History) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no history")
					return nil
				}
				for idx, entry := range snap.History {
					marker := " "
					if idx == snap.Cursor {
						marker = ">"
					}
					vote := "-"
					if entry.Voted {
						vote = entry.Vote
					}
					shown := "never"
					if !entry.ShownAt.IsZero() {
						shown = humanize.Time(entry.ShownAt)
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %3d\t%s\tvote=%s\tshown %s\n", marker, idx+1, entry.Unit.ID, vote, shown)
				}
				return nil
			})
		},
	})

	history.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget local voting history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				app.VotingCLI.ClearHistory(cmd.Context())
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			})
		},
	})
	return history
}

func snapError(snap votingdto.Snapshot, err error) string {
	if snap.Error != "" {
		return snap.Error
	}
	return err.Error()
}

func printSnapshot(w io.Writer, snap votingdto.Snapshot) {
	if snap.Done {
		_, _ = fmt.Fprintln(w, "no more comparisons left")
		return
	}
	unit := snap.Current
	if unit == nil {
		_, _ = fmt.Fprintln(w, "no pair loaded")
		return
	}
	progress := ""
	if unit.TotalCount > 0 {
		progress = fmt.Sprintf(" (%d/%d)", unit.SequenceIndex+1, unit.TotalCount)
	}
	_, _ = fmt.Fprintf(w, "pair %s%s  entry %d of %d\n", unit.ID, progress, snap.Cursor+1, len(snap.History))
	_, _ = fmt.Fprintf(w, "prompt: %s\n", unit.PromptText)
	for idx, option := range unit.Options {
		_, _ = fmt.Fprintf(w, "  [%d] %s\n", idx+1, option.URL)
	}
	if snap.HasVote {
		_, _ = fmt.Fprintf(w, "your vote: %s\n", snap.CurrentVote)
	}
}
