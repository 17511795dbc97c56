package typewriter

// Sink is the mutable text buffer an Action's side effects are applied to.
//
// Lengths are measured in runes. TruncateLast removes up to n trailing runes
// and must clamp to the current length instead of failing.
//
// Sink methods are called from timer goroutines while the sink is owned by
// the active action. Implementations must not call back into the Sequencer.
type Sink interface {
	Append(fragment string)
	TruncateLast(n int)
	Len() int
	Text() string
}
