// Package wiring builds a circuit.Network from its text description.
//
// Each non-blank line declares one module:
//
//	broadcaster -> a, b, c
//	%a -> b
//	&inv -> a, output
//
// A '%' prefix declares a flip-flop, '&' a conjunction and the reserved
// unprefixed name "broadcaster" the broadcaster. Lines starting with '#' are
// comments. A "button" source wired to the broadcaster is synthesized; the
// name is reserved.
//
// Building runs in two passes. The first pass collects every declaration.
// The second assigns ids, resolves destinations and seeds each conjunction
// with the full set of modules that name it as a destination. A conjunction's
// inputs are therefore known before the first pulse is sent and never change.
//
// Destinations that are never declared become sink records: valid targets
// that absorb pulses.
package wiring
