// Package textsink provides typewriter.Sink implementations.
//
// Buffer keeps text in memory and is what tests and the harness observe.
// Terminal mirrors a Buffer onto an io.Writer, erasing with backspaces, and is
// what the play command animates on stdout.
//
// Lengths are counted in runes, matching typewriter.SplitCharacters output
// after NFC normalization.
package textsink
