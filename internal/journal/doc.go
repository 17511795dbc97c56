// Package journal records sequencer runs in SQLite.
//
// A run is one playback of a script. While it plays, a Recorder observes the
// Sequencer and buffers one Entry per event, stamped with a logical sequence
// number and the elapsed time since the run began. Flush appends buffered
// entries to the Store.
//
// The journal is diagnostic. It answers "what did the screen show, and when
// was it interrupted", and is read back by the trace command. Nothing reads
// it to resume playback.
//
// ORDERING:
//
// Entries are ordered by seq, assigned by a SeqSource when the event is
// observed. Reads return ORDER BY seq ASC so a trace is deterministic even
// when timer goroutines race to report events.
//
// STORAGE:
//
// SQLite in WAL mode with a single connection. Writes are idempotent:
// re-flushing an entry with the same (run_id, seq) is ignored.
package journal
