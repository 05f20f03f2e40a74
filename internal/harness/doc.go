// Package harness runs conformance scenarios against the pulse engine.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: example1
//	description: "Four-module ring, every press is 8 low and 4 high"
//	wiring_file: ../wiring/example1.txt   # or an inline `wiring: |` block
//	presses: 1000
//	discipline: fifo                      # optional, fifo|lifo
//	max_pulses: 0                         # optional, 0 = unlimited
//	trace_presses: 1                      # optional, presses kept for assertions
//	expect:
//	  low: 8000
//	  high: 4000
//	  product: 32000000
//	assertions:
//	  - type: press_counts
//	    press: 1
//	    low: 8
//	    high: 4
//	  - type: trace_order
//	    pulses: ["c -high-> inv", "inv -low-> a"]
//	  - type: final_state
//	    module: a
//	    state: "off"
//
// # Assertion Types
//
//   - trace_contains: a pulse line appears in the recorded trace
//   - trace_order: pulse lines appear in order, gaps allowed
//   - trace_count: a pulse line appears exactly N times
//   - press_counts: low/high counts of one recorded press
//   - final_state: a stateful module's state after the last press
//
// # Deterministic Testing
//
// Every scenario runs against a freshly parsed network with a fixed run id,
// so results and digests are identical across runs. RunWithGolden compares
// the recorded trace with testdata/golden/<name>.golden.
package harness
