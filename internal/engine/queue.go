package engine

import (
	"fmt"

	"github.com/roach88/pulsenet/internal/ir"
)

// Discipline selects the order in which in-flight pulses are drained.
type Discipline int

const (
	// FIFO drains pulses in arrival order. This is the only correct
	// discipline for pulse networks.
	FIFO Discipline = iota
	// LIFO drains the most recently emitted pulse first (depth-first).
	LIFO
)

func (d Discipline) String() string {
	switch d {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return fmt.Sprintf("Discipline(%d)", int(d))
	}
}

// ParseDiscipline parses "fifo" or "lifo".
func ParseDiscipline(s string) (Discipline, error) {
	switch s {
	case "fifo", "":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	}
	return FIFO, fmt.Errorf("invalid discipline %q: must be fifo or lifo", s)
}

// pulseQueue holds the pulses in flight during one press.
//
// A queue is owned by exactly one Press call and never shared, so it needs
// no locking. The queue is unbounded; the engine's pulse quota is what stops
// a wiring that never settles.
type pulseQueue struct {
	discipline Discipline
	pulses     []ir.Pulse
	head       int // index of the oldest pulse (FIFO only)
}

// newPulseQueue creates an empty queue.
func newPulseQueue(d Discipline) *pulseQueue {
	return &pulseQueue{
		discipline: d,
		pulses:     make([]ir.Pulse, 0, 64),
	}
}

// Enqueue adds a pulse to the back of the queue.
func (q *pulseQueue) Enqueue(p ir.Pulse) {
	q.pulses = append(q.pulses, p)
}

// TryDequeue removes the next pulse according to the discipline.
// Returns (ir.Pulse{}, false) if the queue is empty.
func (q *pulseQueue) TryDequeue() (ir.Pulse, bool) {
	if q.Len() == 0 {
		return ir.Pulse{}, false
	}

	if q.discipline == LIFO {
		last := len(q.pulses) - 1
		p := q.pulses[last]
		q.pulses = q.pulses[:last]
		return p, true
	}

	p := q.pulses[q.head]
	q.head++

	// Reuse the backing array once drained instead of letting it creep.
	if q.head == len(q.pulses) {
		q.pulses = q.pulses[:0]
		q.head = 0
	}
	return p, true
}

// Len returns the number of pulses in flight.
func (q *pulseQueue) Len() int {
	return len(q.pulses) - q.head
}
