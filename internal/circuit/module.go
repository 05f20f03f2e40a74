package circuit

import (
	"fmt"

	"github.com/roach88/pulsenet/internal/ir"
)

// Kind selects a module's transition function.
type Kind uint8

const (
	// KindSink is a destination that was referenced but never declared.
	// Pulses sent to it are counted and dropped.
	KindSink Kind = iota
	// KindBroadcaster echoes its input level to every destination.
	KindBroadcaster
	// KindFlipFlop toggles on low input and ignores high input.
	KindFlipFlop
	// KindConjunction remembers the last level from each input.
	KindConjunction
	// KindSource is the button. It only responds to Trigger.
	KindSource
)

// Reserved module names.
const (
	BroadcasterName = "broadcaster"
	ButtonName      = "button"
)

// Declaration prefixes in wiring text.
const (
	FlipFlopPrefix    = '%'
	ConjunctionPrefix = '&'
)

func (k Kind) String() string {
	switch k {
	case KindSink:
		return "sink"
	case KindBroadcaster:
		return "broadcaster"
	case KindFlipFlop:
		return "flip-flop"
	case KindConjunction:
		return "conjunction"
	case KindSource:
		return "source"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Module is a node in the network. Kind-specific state lives in unexported
// fields that only Process and Reset touch.
type Module struct {
	ID      ir.ModuleID
	Name    string
	Kind    Kind
	Outputs []ir.ModuleID // declared order; duplicates and self edges allowed

	on bool // flip-flop

	inputs []ir.ModuleID       // conjunction tracked inputs, fixed at build
	slot   map[ir.ModuleID]int // input id -> index into memory
	memory []ir.Level
	highs  int // number of High entries in memory
}

// NewBroadcaster returns a broadcaster module.
func NewBroadcaster(id ir.ModuleID, name string, outputs []ir.ModuleID) Module {
	return Module{ID: id, Name: name, Kind: KindBroadcaster, Outputs: outputs}
}

// NewFlipFlop returns a flip-flop module in the off state.
func NewFlipFlop(id ir.ModuleID, name string, outputs []ir.ModuleID) Module {
	return Module{ID: id, Name: name, Kind: KindFlipFlop, Outputs: outputs}
}

// NewConjunction returns a conjunction tracking exactly the given inputs,
// each remembered as Low. Duplicate inputs are collapsed.
func NewConjunction(id ir.ModuleID, name string, outputs, inputs []ir.ModuleID) Module {
	m := Module{
		ID:      id,
		Name:    name,
		Kind:    KindConjunction,
		Outputs: outputs,
		slot:    make(map[ir.ModuleID]int, len(inputs)),
	}
	for _, in := range inputs {
		if _, dup := m.slot[in]; dup {
			continue
		}
		m.slot[in] = len(m.inputs)
		m.inputs = append(m.inputs, in)
	}
	m.memory = make([]ir.Level, len(m.inputs))
	return m
}

// NewSource returns the button wired to a single destination.
func NewSource(id ir.ModuleID, name string, target ir.ModuleID) Module {
	return Module{ID: id, Name: name, Kind: KindSource, Outputs: []ir.ModuleID{target}}
}

// NewSink returns the record for an undeclared destination.
func NewSink(id ir.ModuleID, name string) Module {
	return Module{ID: id, Name: name, Kind: KindSink}
}

// Trigger is the button's external event: a single Low pulse to its one
// destination.
func (m *Module) Trigger() (ir.Level, ir.ModuleID) {
	if m.Kind != KindSource || len(m.Outputs) != 1 {
		panic(&InternalFault{Module: m.Name, Kind: m.Kind, Reason: "trigger on a module that is not a source"})
	}
	return ir.Low, m.Outputs[0]
}

// Process applies one incoming pulse and reports the level to send to every
// destination. ok is false when the module stays silent.
//
// Calling Process on a Source or Sink, with an undefined level, or on a
// conjunction from a sender it does not track panics with *InternalFault:
// those combinations are only reachable through a builder or scheduler bug.
func (m *Module) Process(in ir.Pulse) (out ir.Level, ok bool) {
	if !in.Level.Valid() {
		panic(&InternalFault{Module: m.Name, Kind: m.Kind, Level: in.Level, Reason: "undefined level"})
	}

	switch m.Kind {
	case KindBroadcaster:
		return in.Level, true

	case KindFlipFlop:
		if in.Level == ir.High {
			return ir.Low, false
		}
		m.on = !m.on
		if m.on {
			return ir.High, true
		}
		return ir.Low, true

	case KindConjunction:
		i, tracked := m.slot[in.From]
		if !tracked {
			panic(&InternalFault{Module: m.Name, Kind: m.Kind, Level: in.Level,
				Reason: fmt.Sprintf("pulse from untracked input %d", in.From)})
		}
		if prev := m.memory[i]; prev != in.Level {
			m.memory[i] = in.Level
			if in.Level == ir.High {
				m.highs++
			} else {
				m.highs--
			}
		}
		if m.highs == len(m.memory) {
			return ir.Low, true
		}
		return ir.High, true

	case KindSource, KindSink:
		panic(&InternalFault{Module: m.Name, Kind: m.Kind, Level: in.Level, Reason: "module kind is never invoked"})
	}

	panic(&InternalFault{Module: m.Name, Kind: m.Kind, Level: in.Level, Reason: "unknown module kind"})
}

// On reports a flip-flop's state. Always false for other kinds.
func (m *Module) On() bool {
	return m.on
}

// Inputs returns a conjunction's tracked inputs in declaration order.
func (m *Module) Inputs() []ir.ModuleID {
	return m.inputs
}

// Remembered returns the level a conjunction last saw from input.
// ok is false when input is not tracked.
func (m *Module) Remembered(input ir.ModuleID) (level ir.Level, ok bool) {
	i, ok := m.slot[input]
	if !ok {
		return ir.Low, false
	}
	return m.memory[i], true
}

// AllHigh reports whether every tracked input of a conjunction is High.
// A conjunction with no inputs is vacuously all high.
func (m *Module) AllHigh() bool {
	return m.highs == len(m.memory)
}

// Reset returns the module to its power-on state.
func (m *Module) Reset() {
	m.on = false
	for i := range m.memory {
		m.memory[i] = ir.Low
	}
	m.highs = 0
}

func (m *Module) clone() Module {
	c := *m
	c.Outputs = append([]ir.ModuleID(nil), m.Outputs...)
	if m.Kind == KindConjunction {
		c.inputs = append([]ir.ModuleID(nil), m.inputs...)
		c.memory = append([]ir.Level(nil), m.memory...)
		c.slot = make(map[ir.ModuleID]int, len(m.slot))
		for k, v := range m.slot {
			c.slot[k] = v
		}
	}
	return c
}
