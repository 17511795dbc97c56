package typewriter

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Kind distinguishes the variants of Action.
type Kind int

const (
	// KindWait delays for a duration, then completes.
	KindWait Kind = iota + 1
	// KindTypeChunks appends fragments to the sink, one per tick.
	KindTypeChunks
	// KindDeleteChars removes trailing runes from the sink, one per tick.
	KindDeleteChars
	// KindTrigger runs a callback and completes in the same turn.
	KindTrigger
	// KindAwait hands a done callback to caller code and completes when it is called.
	KindAwait
)

// String returns the lower-case name used in logs and journals.
func (k Kind) String() string {
	switch k {
	case KindWait:
		return "wait"
	case KindTypeChunks:
		return "type"
	case KindDeleteChars:
		return "delete"
	case KindTrigger:
		return "trigger"
	case KindAwait:
		return "await"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// AwaitFunc starts external work and calls done when it has finished.
// It may return a halt func that aborts the work; nil means nothing to abort.
// Calls to done after the action was canceled are ignored.
type AwaitFunc func(done func()) (halt func())

// Action is one queued unit of timed or immediate work.
//
// Action is a closed variant selected by Kind. Values are immutable once
// constructed: constructors copy their inputs and nothing mutates an Action
// afterwards, so the same Action may be enqueued more than once.
type Action struct {
	kind     Kind
	duration time.Duration // KindWait
	chunks   []string      // KindTypeChunks
	delay    time.Duration // KindTypeChunks, KindDeleteChars
	count    int           // KindDeleteChars
	all      bool          // KindDeleteChars: count resolved from the sink at start
	fn       func()        // KindTrigger
	await    AwaitFunc     // KindAwait
}

// WaitAction returns an action that does nothing for d.
func WaitAction(d time.Duration) Action {
	return Action{kind: KindWait, duration: sanitize(d)}
}

// TypeChunksAction returns an action that appends chunks one per delay.
func TypeChunksAction(chunks []string, delay time.Duration) Action {
	cp := make([]string, len(chunks))
	copy(cp, chunks)
	return Action{kind: KindTypeChunks, chunks: cp, delay: sanitize(delay)}
}

// TypeTextAction returns TypeChunksAction over the characters of text.
func TypeTextAction(text string, delay time.Duration) Action {
	return Action{kind: KindTypeChunks, chunks: SplitCharacters(text), delay: sanitize(delay)}
}

// DeleteAction returns an action that removes up to count trailing runes.
func DeleteAction(count int, delay time.Duration) Action {
	if count < 0 {
		count = 0
	}
	return Action{kind: KindDeleteChars, count: count, delay: sanitize(delay)}
}

// ClearAction returns a delete action whose count is the sink length at the
// moment the action starts.
func ClearAction(delay time.Duration) Action {
	return Action{kind: KindDeleteChars, all: true, delay: sanitize(delay)}
}

// TriggerAction returns an action that calls fn when reached.
func TriggerAction(fn func()) Action {
	return Action{kind: KindTrigger, fn: fn}
}

// AwaitAction returns an action that completes when fn calls done.
func AwaitAction(fn AwaitFunc) Action {
	return Action{kind: KindAwait, await: fn}
}

// Kind reports the variant.
func (a Action) Kind() Kind {
	return a.kind
}

// String describes the action for logs.
func (a Action) String() string {
	switch a.kind {
	case KindWait:
		return fmt.Sprintf("wait(%s)", a.duration)
	case KindTypeChunks:
		return fmt.Sprintf("type(%q, %s)", strings.Join(a.chunks, ""), a.delay)
	case KindDeleteChars:
		if a.all {
			return fmt.Sprintf("clear(%s)", a.delay)
		}
		return fmt.Sprintf("delete(%d, %s)", a.count, a.delay)
	default:
		return a.kind.String()
	}
}

// start begins executing the action on x. It returns the cancellation
// handle (nil when nothing is left to halt) and whether the action already
// finished. Asynchronous completion is reported through x.done.
//
// Kinds that never call out to caller code run with x.mu held; see
// execution.begin.
func (a Action) start(x *execution) (halt func(), finished bool) {
	switch a.kind {
	case KindWait:
		return a.startWait(x)
	case KindTypeChunks:
		return a.startType(x)
	case KindDeleteChars:
		return a.startDelete(x)
	case KindTrigger:
		return a.startTrigger(x)
	case KindAwait:
		return a.startAwait(x)
	default:
		return nil, true
	}
}

// callsOut reports whether starting the action runs caller-supplied code.
func (a Action) callsOut() bool {
	return a.kind == KindTrigger || a.kind == KindAwait
}

func (a Action) startWait(x *execution) (func(), bool) {
	if a.duration <= 0 {
		return nil, true
	}
	stop := x.clock().AfterFunc(a.duration, x.done)
	return func() { stop() }, false
}

func (a Action) startType(x *execution) (func(), bool) {
	chunks := a.chunks
	if len(chunks) == 0 {
		return nil, true
	}

	// First chunk has no delay.
	x.append(chunks[0])
	if len(chunks) == 1 {
		return nil, true
	}

	next := 1
	t := newTicker(x.clock(), a.delay, func() bool {
		x.append(chunks[next])
		next++
		return next >= len(chunks)
	}, x.done)
	t.start()
	return t.stop, false
}

func (a Action) startDelete(x *execution) (func(), bool) {
	remaining := a.count
	if a.all {
		remaining = x.sinkLen()
	}
	if n := x.sinkLen(); remaining > n {
		remaining = n
	}
	if remaining <= 0 {
		return nil, true
	}

	// First rune has no delay.
	x.truncate()
	remaining--
	if remaining <= 0 || x.sinkLen() == 0 {
		return nil, true
	}

	t := newTicker(x.clock(), a.delay, func() bool {
		if x.sinkLen() == 0 {
			return true
		}
		x.truncate()
		remaining--
		return remaining <= 0 || x.sinkLen() == 0
	}, x.done)
	t.start()
	return t.stop, false
}

func (a Action) startTrigger(x *execution) (func(), bool) {
	// Checked at invocation time: a Cancel racing this turn suppresses fn.
	if x.isCanceled() {
		return nil, false
	}
	if a.fn != nil {
		a.fn()
	}
	return nil, true
}

func (a Action) startAwait(x *execution) (func(), bool) {
	if a.await == nil {
		return nil, true
	}
	return a.await(x.done), false
}

// SplitCharacters splits text into the units TypeText types per tick.
//
// Chunks end at NFC normalization boundaries, so a base rune and any
// combining marks land in the same chunk. The chunks are slices of text:
// joined, they give back text byte for byte.
func SplitCharacters(text string) []string {
	if text == "" {
		return nil
	}
	chunks := make([]string, 0, len(text))
	for i := 0; i < len(text); {
		n := norm.NFC.NextBoundaryInString(text[i:], true)
		if n <= 0 {
			n = len(text) - i
		}
		chunks = append(chunks, text[i:i+n])
		i += n
	}
	return chunks
}

// sanitize maps negative durations to zero.
func sanitize(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
