// Package circuit holds the module kinds of a pulse network and the arena
// that owns them.
//
// A Module is one tagged record; its Kind selects which transition runs in
// Process. There is no interface per kind and no virtual dispatch: the switch
// in Process is the whole state machine.
//
// Transition table:
//
//	Kind         State            On Low                     On High
//	Broadcaster  none             emit Low                   emit High
//	FlipFlop     on/off           toggle, emit High if on    nothing
//	Conjunction  input -> level   record, emit Low iff all   record, same rule
//	                              inputs High, else High
//	Source       none             only triggered externally
//	Sink         none             never invoked
//
// Every destination of a module receives the same level per invocation.
//
// A Network is built once (see package wiring) and mutated only through
// Process. It is not safe for concurrent use; independent runs must each
// work on their own Clone.
package circuit
