// Package engine implements the pulse scheduler.
//
// The engine drives button presses through a circuit.Network. One press is
// one trigger cycle: the button's low pulse is enqueued, then pulses are
// dequeued one at a time, handed to their destination module, and whatever
// that module emits is enqueued behind everything already in flight. The
// press ends when the queue is empty.
//
// ARCHITECTURE:
//
// Single-Threaded Drain:
// Every press runs to completion on the calling goroutine. There is no
// suspension point inside a press; context cancellation is only honored
// between presses. Module state persists from one press to the next.
//
// Pulse Processing Flow:
//  1. Press() allocates a fresh queue owned by that call
//  2. The button's pulse is enqueued
//  3. The oldest pulse is dequeued and stamped with Clock.Next()
//  4. Observers see the pulse (counting happens here, sinks included)
//  5. Unless the destination is a sink, Process() runs and every emitted
//     pulse is enqueued in the module's declared destination order
//
// CRITICAL PATTERNS:
//
// Arrival Order:
// The queue is strictly first-in-first-out. Conjunctions depend on seeing
// their inputs in the order pulses actually arrive across the whole network;
// a depth-first (LIFO) drain produces different counts on networks with a
// multi-input conjunction. LIFO exists only to demonstrate that.
//
// Logical Clock:
// Pulses carry a monotonic seq from Clock.Next(), never wall-clock time.
package engine
