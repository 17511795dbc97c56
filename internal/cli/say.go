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

	"github.com/roach88/typewriter/internal/display"
	"github.com/roach88/typewriter/internal/textsink"
	"github.com/roach88/typewriter/internal/typewriter"
)

// SayOptions holds flags for the say command.
type SayOptions struct {
	*RootOptions
	Interval time.Duration
	Speed    float64
}

// SayResult is the JSON payload of the say command.
type SayResult struct {
	Messages  int    `json:"messages"`
	Repeats   int    `json:"repeats"`
	Status    string `json:"status"`
	FinalText string `json:"final_text"`
}

// NewSayCommand creates the say command.
func NewSayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "say <message>...",
		Short: "Announce messages on the terminal",
		Long: `Announce each message in turn, replacing the one before it.

A new message erases the previous one and is typed in its place. Repeating
the message that is already shown appends an escalating remark instead.

By default each message waits for the previous animation to finish. With
--interval, messages arrive on a fixed beat and may cut each other off.

Exit codes:
  0 - All messages shown
  1 - Interrupted
  2 - Command error

Examples:
  typewriter say "Miss!" "Hit!"
  typewriter say Miss Miss Miss Miss
  typewriter say --interval 300ms "Sunk!" "Sunk!"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSay(opts, args, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "time between messages (0 waits for each to finish)")
	cmd.Flags().Float64Var(&opts.Speed, "speed", 1, "playback speed multiplier")

	return cmd
}

func runSay(opts *SayOptions, messages []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if opts.Speed <= 0 {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("speed must be positive, got %v", opts.Speed), nil)
	}

	screen := cmd.OutOrStdout()
	if formatter.JSON() {
		screen = cmd.ErrOrStderr()
	}
	term := textsink.NewTerminal(screen)

	clock := typewriter.ScaledClock{Base: typewriter.SystemClock{}, Speed: opts.Speed}
	seqOpts := append(opts.Config.Options(), typewriter.WithClock(clock), typewriter.WithLogger(slog.Default()))
	seq := typewriter.New(term, seqOpts...)
	announcer := display.NewAnnouncer(seq, display.DefaultTiming())

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := "completed"
	if err := announce(ctx, announcer, seq, messages, scaled(opts.Interval, opts.Speed)); err != nil {
		seq.Cancel(true)
		status = "canceled"
		slog.Info("announcement canceled", "reason", err)
	}
	term.Newline()
	if err := term.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to write to terminal", err)
	}

	result := SayResult{
		Messages:  len(messages),
		Repeats:   announcer.Repeats(),
		Status:    status,
		FinalText: term.Text(),
	}
	if status == "canceled" {
		_ = formatter.Failure(ErrCodeCanceled, "announcement canceled", result)
		return NewExitError(ExitFailure, "announcement canceled")
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	return nil
}

// announce says each message, spacing them by interval or, when interval
// is zero, waiting for the sequencer to go idle in between.
func announce(ctx context.Context, a *display.Announcer, seq *typewriter.Sequencer, messages []string, interval time.Duration) error {
	for i, msg := range messages {
		a.Say(msg)
		if i == len(messages)-1 {
			break
		}
		if interval <= 0 {
			if err := seq.WaitIdle(ctx); err != nil {
				return err
			}
			continue
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return seq.WaitIdle(ctx)
}

func scaled(d time.Duration, speed float64) time.Duration {
	return time.Duration(float64(d) / speed)
}
