package textsink

import (
	"io"
	"strings"
	"sync"
)

// Terminal writes sink changes to an io.Writer as they happen.
//
// Appends are written verbatim. Each truncated rune is erased with the
// "\b \b" sequence. The content is tracked in an embedded Buffer so Len and
// Text do not depend on the writer.
//
// Write errors are not reported through the Sink methods; the first one is
// kept and returned by Err, and later writes are skipped.
type Terminal struct {
	buf *Buffer

	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewTerminal creates a Terminal writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{buf: NewBuffer(""), w: w}
}

// Append writes fragment and records it.
func (t *Terminal) Append(fragment string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Append(fragment)
	t.write(fragment)
}

// TruncateLast erases up to n trailing runes.
func (t *Terminal) TruncateLast(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf.mu.Lock()
	removed := t.buf.truncateLocked(n)
	t.buf.mu.Unlock()

	if removed > 0 {
		t.write(strings.Repeat("\b \b", removed))
	}
}

// Len returns the length in runes.
func (t *Terminal) Len() int {
	return t.buf.Len()
}

// Text returns the current content.
func (t *Terminal) Text() string {
	return t.buf.Text()
}

// Newline ends the current line on the writer without changing the content.
func (t *Terminal) Newline() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write("\n")
}

// Err returns the first write error, if any.
func (t *Terminal) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Terminal) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}
