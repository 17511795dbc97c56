package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/typewriter/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Kind     string // optional - filter to one event kind
}

// TraceEvent is a single entry in the trace timeline.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	AtMs    int64  `json:"at_ms"`
	Kind    string `json:"kind"`
	Action  string `json:"action,omitempty"`
	Index   uint64 `json:"index,omitempty"`
	Text    string `json:"text,omitempty"`
	Dropped int    `json:"dropped,omitempty"`
	Mark    string `json:"mark,omitempty"`
}

// TraceResult holds the trace of one run.
type TraceResult struct {
	Run      journal.Run  `json:"run"`
	Timeline []TraceEvent `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

// TraceStats summarizes a run's events.
type TraceStats struct {
	TotalEvents int   `json:"total_events"`
	Started     int   `json:"started"`
	Completed   int   `json:"completed"`
	Canceled    int   `json:"canceled"`
	Dropped     int   `json:"dropped"`
	Marks       int   `json:"marks"`
	DurationMs  int64 `json:"duration_ms"`
}

// RunList is the JSON payload when no run is named.
type RunList struct {
	Runs []journal.Run `json:"runs"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id|latest]",
		Short: "Inspect journaled runs",
		Long: `Inspect runs journaled by "typewriter play --db".

Without an argument, lists all runs, most recent first. With a run ID (or
"latest"), prints that run's event timeline and a summary.

Exit codes:
  0 - Success
  2 - Command error (no journal, unknown run)

Examples:
  typewriter trace --db ./typewriter.db
  typewriter trace --db ./typewriter.db latest
  typewriter trace --db ./typewriter.db 0190c4b2-... --kind canceled
  typewriter trace --db ./typewriter.db latest --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runTrace(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal database path (default: journal from config)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter to one event kind (started, tick, completed, canceled, idle, mark)")

	return cmd
}

func runTrace(opts *TraceOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Config.Journal
	}
	if dbPath == "" {
		return formatter.fail(ExitCommandError, ErrCodeJournal, "no journal: pass --db or set journal in the config file", nil)
	}

	st, err := journal.Open(dbPath)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
	}
	defer st.Close()

	if runID == "" {
		return listRuns(ctx, st, formatter)
	}

	if runID == "latest" {
		run, err := st.LatestRun(ctx)
		if errors.Is(err, journal.ErrRunNotFound) {
			return formatter.fail(ExitCommandError, ErrCodeRunNotFound, "journal has no runs", nil)
		}
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeJournal, "failed to read journal", err)
		}
		runID = run.ID
	}

	run, entries, err := st.ReadRun(ctx, runID)
	if errors.Is(err, journal.ErrRunNotFound) {
		return formatter.fail(ExitCommandError, ErrCodeRunNotFound, fmt.Sprintf("run not found: %s", runID), nil)
	}
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeJournal, "failed to read run", err)
	}

	result := TraceResult{
		Run:      run,
		Timeline: buildTimeline(entries, opts.Kind),
		Stats:    buildStats(entries),
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	outputTraceText(formatter.Writer, result, opts.Verbose)
	return nil
}

func listRuns(ctx context.Context, st *journal.Store, formatter *OutputFormatter) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeJournal, "failed to list runs", err)
	}
	if formatter.JSON() {
		return formatter.Success(RunList{Runs: runs})
	}
	if len(runs) == 0 {
		formatter.Printf("No runs recorded.\n")
		return nil
	}
	for _, r := range runs {
		formatter.Printf("%s  %-9s  %s  %s\n", r.ID, r.Status, r.StartedAt.Format(time.RFC3339), r.Script)
	}
	return nil
}

// buildTimeline converts journal entries to timeline events. When
// kindFilter is set, only entries of that kind are kept.
func buildTimeline(entries []journal.Entry, kindFilter string) []TraceEvent {
	timeline := []TraceEvent{}
	for _, e := range entries {
		if kindFilter != "" && e.Kind != kindFilter {
			continue
		}
		timeline = append(timeline, TraceEvent{
			Seq:     e.Seq,
			AtMs:    e.At.Milliseconds(),
			Kind:    e.Kind,
			Action:  e.Action,
			Index:   e.Index,
			Text:    e.Text,
			Dropped: e.Dropped,
			Mark:    e.Mark,
		})
	}
	return timeline
}

// buildStats counts over all entries, ignoring any filter.
func buildStats(entries []journal.Entry) TraceStats {
	stats := TraceStats{TotalEvents: len(entries)}
	for _, e := range entries {
		switch e.Kind {
		case "started":
			stats.Started++
		case "completed":
			stats.Completed++
		case "canceled":
			stats.Canceled++
			stats.Dropped += e.Dropped
		case journal.KindMark:
			stats.Marks++
		}
		if ms := e.At.Milliseconds(); ms > stats.DurationMs {
			stats.DurationMs = ms
		}
	}
	return stats
}

func outputTraceText(w io.Writer, result TraceResult, verbose bool) {
	fmt.Fprintf(w, "Trace for Run: %s\n", result.Run.ID)
	fmt.Fprintf(w, "Script: %s\n", result.Run.Script)
	fmt.Fprintf(w, "Status: %s\n", result.Run.Status)
	fmt.Fprintf(w, "Final Text: %q\n", result.Run.FinalText)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no events)")
	}
	for _, e := range result.Timeline {
		formatTimelineEvent(w, e, verbose)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Events: %d\n", result.Stats.TotalEvents)
	fmt.Fprintf(w, "  Started:      %d\n", result.Stats.Started)
	fmt.Fprintf(w, "  Completed:    %d\n", result.Stats.Completed)
	fmt.Fprintf(w, "  Canceled:     %d (%d dropped)\n", result.Stats.Canceled, result.Stats.Dropped)
	fmt.Fprintf(w, "  Marks:        %d\n", result.Stats.Marks)
	fmt.Fprintf(w, "  Duration:     %dms\n", result.Stats.DurationMs)
}

func formatTimelineEvent(w io.Writer, e TraceEvent, verbose bool) {
	prefix := fmt.Sprintf("  [%d] %6dms", e.Seq, e.AtMs)
	switch e.Kind {
	case "tick":
		fmt.Fprintf(w, "%s TICK %s %q\n", prefix, e.Action, e.Text)
	case "canceled":
		fmt.Fprintf(w, "%s CANCEL %s (dropped %d)\n", prefix, e.Action, e.Dropped)
	case journal.KindMark:
		fmt.Fprintf(w, "%s MARK %s\n", prefix, e.Mark)
	case "idle":
		fmt.Fprintf(w, "%s IDLE\n", prefix)
	default:
		fmt.Fprintf(w, "%s %s %s\n", prefix, upper(e.Kind), e.Action)
	}
	if verbose && e.Action != "" {
		fmt.Fprintf(w, "       Index: %d\n", e.Index)
	}
}

func upper(kind string) string {
	switch kind {
	case "started":
		return "START"
	case "completed":
		return "DONE"
	default:
		return kind
	}
}
