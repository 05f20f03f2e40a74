package circuit

import (
	"fmt"
	"strings"

	"github.com/roach88/pulsenet/internal/ir"
)

// Network is the arena of every module identity in a wiring description,
// indexed by dense ModuleID.
//
// INVARIANTS:
//   - Modules[i].ID == i
//   - names are unique
//   - exactly one Source and one Broadcaster exist
//   - conjunction input sets never change size after construction
type Network struct {
	Modules []Module

	byName      map[string]ir.ModuleID
	button      ir.ModuleID
	broadcaster ir.ModuleID
}

// NewNetwork checks the arena invariants and indexes modules by name.
// The slice is owned by the returned Network.
func NewNetwork(modules []Module) (*Network, error) {
	n := &Network{
		Modules:     modules,
		byName:      make(map[string]ir.ModuleID, len(modules)),
		button:      ir.NoModule,
		broadcaster: ir.NoModule,
	}

	for i := range modules {
		m := &modules[i]
		if m.ID != ir.ModuleID(i) {
			return nil, fmt.Errorf("module %q has id %d at index %d", m.Name, m.ID, i)
		}
		if _, dup := n.byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate module name %q", m.Name)
		}
		n.byName[m.Name] = m.ID

		switch m.Kind {
		case KindSource:
			if n.button.Valid() {
				return nil, fmt.Errorf("second source module %q", m.Name)
			}
			n.button = m.ID
		case KindBroadcaster:
			if n.broadcaster.Valid() {
				return nil, fmt.Errorf("second broadcaster module %q", m.Name)
			}
			n.broadcaster = m.ID
		}

		for _, out := range m.Outputs {
			if out < 0 || int(out) >= len(modules) {
				return nil, fmt.Errorf("module %q has out-of-range destination %d", m.Name, out)
			}
		}
		for _, in := range m.inputs {
			if in < 0 || int(in) >= len(modules) {
				return nil, fmt.Errorf("conjunction %q has out-of-range input %d", m.Name, in)
			}
		}
	}

	if !n.button.Valid() {
		return nil, fmt.Errorf("network has no source module")
	}
	if !n.broadcaster.Valid() {
		return nil, fmt.Errorf("network has no broadcaster module")
	}
	return n, nil
}

// Len returns the number of identities, sinks included.
func (n *Network) Len() int {
	return len(n.Modules)
}

// Module returns the module with the given id.
func (n *Network) Module(id ir.ModuleID) *Module {
	return &n.Modules[id]
}

// Lookup resolves a name to an id.
func (n *Network) Lookup(name string) (ir.ModuleID, bool) {
	id, ok := n.byName[name]
	return id, ok
}

// Name returns the name of id, or "?" for an invalid id.
func (n *Network) Name(id ir.ModuleID) string {
	if id < 0 || int(id) >= len(n.Modules) {
		return "?"
	}
	return n.Modules[id].Name
}

// Button returns the id of the source module.
func (n *Network) Button() ir.ModuleID {
	return n.button
}

// Broadcaster returns the id of the broadcaster module.
func (n *Network) Broadcaster() ir.ModuleID {
	return n.broadcaster
}

// Count returns how many modules of kind k the network holds.
func (n *Network) Count(k Kind) int {
	c := 0
	for i := range n.Modules {
		if n.Modules[i].Kind == k {
			c++
		}
	}
	return c
}

// Reset returns every module to its power-on state.
func (n *Network) Reset() {
	for i := range n.Modules {
		n.Modules[i].Reset()
	}
}

// Clone returns a deep copy with independent module state.
func (n *Network) Clone() *Network {
	c := &Network{
		Modules:     make([]Module, len(n.Modules)),
		byName:      make(map[string]ir.ModuleID, len(n.byName)),
		button:      n.button,
		broadcaster: n.broadcaster,
	}
	for i := range n.Modules {
		c.Modules[i] = n.Modules[i].clone()
	}
	for k, v := range n.byName {
		c.byName[k] = v
	}
	return c
}

// Snapshot renders the state of every stateful module, keyed by name.
// Flip-flops render as "on"/"off"; conjunctions as "in1=low,in2=high" in
// tracked-input order.
func (n *Network) Snapshot() map[string]string {
	snap := make(map[string]string)
	for i := range n.Modules {
		m := &n.Modules[i]
		switch m.Kind {
		case KindFlipFlop:
			if m.on {
				snap[m.Name] = "on"
			} else {
				snap[m.Name] = "off"
			}
		case KindConjunction:
			var b strings.Builder
			for j, in := range m.inputs {
				if j > 0 {
					b.WriteByte(',')
				}
				b.WriteString(n.Name(in))
				b.WriteByte('=')
				b.WriteString(m.memory[j].String())
			}
			snap[m.Name] = b.String()
		}
	}
	return snap
}
