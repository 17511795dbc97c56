// Package harness runs typewriter scripts in virtual time and checks them.
//
// # Execution
//
// Each run gets a fresh Sequencer writing to an in-memory Buffer, driven by a
// testutil.ManualClock. The harness queues the script, calls Run and then
// fires timers until none are armed, so a script that would take seconds on a
// terminal finishes instantly and identically every time.
//
// Every sequencer event is journaled through a journal.Recorder into an
// in-memory SQLite journal and read back as the run's trace. Frames (what the
// sink showed after each change) and marks are derived from that trace.
//
// # Expectations
//
// A script's expect block is evaluated against the result:
//
//   - final_text: sink content once the sequencer is idle
//   - marks: markers reached, in order
//   - elapsed: virtual time at which the last timer fired
//
// # Deterministic Testing
//
// The harness uses:
//   - Virtual timers (testutil.ManualClock)
//   - Deterministic logical clock (testutil.DeterministicClock)
//   - Fixed run IDs (testutil.FixedRunIDGenerator)
//   - In-memory SQLite journal (isolated per run)
//
// This makes traces identical across runs for golden file comparison.
//
// # Usage
//
//	s, err := script.Load("testdata/scripts/greeting.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, f := range result.Failures {
//	        log.Println(f)
//	    }
//	}
package harness
