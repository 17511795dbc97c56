// Package typewriter implements a cancelable sequential action scheduler
// that animates a text sink.
//
// A Sequencer owns a FIFO queue of Actions. Callers build a sequence with the
// fluent methods (TypeText, Wait, ClearAll, ...) and call Run to start
// draining it. Each action signals completion exactly once; the Sequencer then
// starts the next one. Cancel halts the active action and optionally drops
// everything still queued.
//
// ARCHITECTURE:
//
// Single Active Action:
// At most one action executes at a time. The single-active-action rule is the
// concurrency control for the Sink: only the active action mutates it, so
// sinks need no coordination with the Sequencer beyond their own locking.
//
// Timers:
// Timed actions are built on a repeating ticker driven by a Clock. The next
// timer is armed only after the previous tick returned, so ticks within an
// action never overlap. Stopping a ticker waits for any tick in progress and
// guarantees that neither another tick nor the completion callback follows.
//
// Executions:
// Every started action gets an execution record with canceled/finished flags.
// A timer that already fired when Cancel ran, or a late done call from an
// Await callback, is dropped by checking the record, never by inspecting
// the action itself.
//
// Permissive Protocol:
// No operation returns an error. Negative durations become zero, oversized
// delete counts are clamped, Run while running and Cancel while idle are
// no-ops. Chaining is always safe.
package typewriter
