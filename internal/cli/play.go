package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/typewriter/internal/journal"
	"github.com/roach88/typewriter/internal/script"
	"github.com/roach88/typewriter/internal/textsink"
	"github.com/roach88/typewriter/internal/typewriter"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Database string
	Speed    float64

	// RunIDs generates journal run IDs. Defaults to UUIDv7.
	RunIDs journal.RunIDGenerator
}

// PlayResult is the JSON payload of the play command.
type PlayResult struct {
	Script    string `json:"script"`
	RunID     string `json:"run_id,omitempty"`
	Status    string `json:"status"`
	FinalText string `json:"final_text"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	return newPlayCommand(&PlayOptions{RootOptions: rootOpts})
}

func newPlayCommand(opts *PlayOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <script>",
		Short: "Play a script on the terminal",
		Long: `Play a script in real time, typing and erasing on the terminal.

Ctrl-C cancels playback. With --db (or journal: in the config file) every
sequencer event is journaled and can be inspected with "typewriter trace".

In JSON format the animation is written to stderr and the result to stdout.

Exit codes:
  0 - Playback finished
  1 - Playback canceled or invalid script
  2 - Command error (missing script, journal error)

Examples:
  typewriter play intro.yaml
  typewriter play intro.cue --speed 2
  typewriter play intro.yaml --db ./typewriter.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal database path")
	cmd.Flags().Float64Var(&opts.Speed, "speed", 1, "playback speed multiplier")

	return cmd
}

func runPlay(opts *PlayOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("script not found: %s", path), nil)
	}
	s, err := script.Load(path)
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeInvalidScript, err.Error(), err)
	}
	if opts.Speed <= 0 {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("speed must be positive, got %v", opts.Speed), nil)
	}

	screen := cmd.OutOrStdout()
	if formatter.JSON() {
		screen = cmd.ErrOrStderr()
	}
	term := textsink.NewTerminal(screen)
	term.Append(s.Initial)

	clock := typewriter.ScaledClock{Base: typewriter.SystemClock{}, Speed: opts.Speed}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Config.Journal
	}
	var rec *journal.Recorder
	var st *journal.Store
	if dbPath != "" {
		st, err = journal.Open(dbPath)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing journal", "error", closeErr)
			}
		}()

		gen := opts.RunIDs
		if gen == nil {
			gen = journal.UUIDv7Generator{}
		}
		runID := gen.Generate()
		if err := st.BeginRun(ctx, runID, s.Name, time.Now()); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeJournal, "failed to begin run", err)
		}
		rec = journal.NewRecorder(runID, journal.NewClock(), journal.SinceStart())
		slog.Debug("journaling run", "db", dbPath, "run_id", runID)
	}

	seqOpts := append(opts.Config.Options(), s.Options()...)
	seqOpts = append(seqOpts, typewriter.WithClock(clock), typewriter.WithLogger(slog.Default()))
	if rec != nil {
		seqOpts = append(seqOpts, typewriter.WithObserver(rec))
	}
	seq := typewriter.New(term, seqOpts...)

	onMark := func(name string) {
		slog.Debug("mark reached", "name", name)
		if rec != nil {
			rec.Mark(name)
		}
	}
	h := s.Apply(seq, clock, onMark)
	defer h.Stop()

	slog.Info("playing script", "script", s.Name, "speed", opts.Speed)
	seq.Run()

	status := journal.StatusCompleted
	if err := waitPlayback(ctx, seq, h); err != nil {
		seq.Cancel(true)
		status = journal.StatusCanceled
		slog.Info("playback canceled", "reason", err)
	}
	term.Newline()

	result := PlayResult{Script: s.Name, Status: status, FinalText: term.Text()}
	if rec != nil {
		result.RunID = rec.RunID()
		if err := finishJournal(rec, st, status, term.Text()); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeJournal, "failed to write journal", err)
		}
	}
	if err := term.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to write to terminal", err)
	}

	if status == journal.StatusCanceled {
		if formatter.JSON() {
			_ = formatter.Failure(ErrCodeCanceled, "playback canceled", result)
		}
		return NewExitError(ExitFailure, "playback canceled")
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	return nil
}

// waitPlayback blocks until every interrupt has fired and the sequencer is
// idle, or ctx is done.
func waitPlayback(ctx context.Context, seq *typewriter.Sequencer, h *script.Handle) error {
	select {
	case <-h.Settled():
	case <-ctx.Done():
		return ctx.Err()
	}
	return seq.WaitIdle(ctx)
}

func finishJournal(rec *journal.Recorder, st *journal.Store, status, finalText string) error {
	// Playback may have been canceled; the journal write still completes.
	ctx := context.Background()
	if err := rec.Flush(ctx, st); err != nil {
		return err
	}
	return st.FinishRun(ctx, rec.RunID(), status, finalText, time.Now())
}
