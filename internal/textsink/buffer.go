package textsink

import "sync"

// Buffer is an in-memory, goroutine-safe text sink.
type Buffer struct {
	mu    sync.Mutex
	runes []rune
}

// NewBuffer creates a Buffer holding initial.
func NewBuffer(initial string) *Buffer {
	return &Buffer{runes: []rune(initial)}
}

// Append adds fragment to the end of the buffer.
func (b *Buffer) Append(fragment string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runes = append(b.runes, []rune(fragment)...)
}

// TruncateLast removes up to n trailing runes. Non-positive n is a no-op.
func (b *Buffer) TruncateLast(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.truncateLocked(n)
}

func (b *Buffer) truncateLocked(n int) int {
	if n <= 0 {
		return 0
	}
	if n > len(b.runes) {
		n = len(b.runes)
	}
	b.runes = b.runes[:len(b.runes)-n]
	return n
}

// Len returns the length in runes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.runes)
}

// Text returns the current content.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.runes)
}

// Set replaces the content without animation.
func (b *Buffer) Set(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runes = []rune(text)
}
