// Package trace records the pulses an engine dequeues and renders them as a
// readable log.
//
// Each pulse renders on its own line as
//
//	from -level-> to
//
// in dequeue order. When the recorder holds pulses from more than one press,
// each press is introduced by a "# press N" header. The first-press log of a
// wiring is what golden tests compare against.
package trace
