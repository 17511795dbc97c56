// Package script loads declarative typewriter scripts and applies them to a
// Sequencer.
//
// A script is a list of steps run in order, optional per-script default
// delays, optional interrupts that cancel the running sequence at a fixed
// offset and queue replacement steps, and optional expectations checked by
// the harness.
//
// Scripts are written in YAML or CUE:
//
//	name: greeting
//	defaults:
//	  type_delay: 75ms
//	steps:
//	  - type: "Hello"
//	  - wait: 200ms
//	  - delete: 5
//	    delay: 25
//	  - mark: erased
//	expect:
//	  final_text: ""
//	  marks: [erased]
//
// Durations are Go duration strings ("75ms") or integer milliseconds.
//
// YAML is decoded strictly: unknown fields are rejected so that typos fail
// loudly. CUE files are unified with an embedded #Script schema before they
// are decoded.
package script
