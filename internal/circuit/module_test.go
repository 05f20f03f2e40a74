package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/ir"
)

func pulse(level ir.Level, from ir.ModuleID) ir.Pulse {
	return ir.Pulse{Level: level, From: from}
}

func TestBroadcaster_EchoesLevel(t *testing.T) {
	m := NewBroadcaster(0, BroadcasterName, []ir.ModuleID{1, 2})

	out, ok := m.Process(pulse(ir.Low, 9))
	require.True(t, ok)
	assert.Equal(t, ir.Low, out)

	out, ok = m.Process(pulse(ir.High, 9))
	require.True(t, ok)
	assert.Equal(t, ir.High, out)
}

func TestFlipFlop_IgnoresHigh(t *testing.T) {
	m := NewFlipFlop(0, "a", []ir.ModuleID{1})

	_, ok := m.Process(pulse(ir.High, 1))
	assert.False(t, ok, "high input must not emit")
	assert.False(t, m.On(), "high input must not change state")
}

func TestFlipFlop_LowPairRestoresState(t *testing.T) {
	for _, start := range []bool{false, true} {
		m := NewFlipFlop(0, "a", []ir.ModuleID{1})
		m.on = start

		first, ok := m.Process(pulse(ir.Low, 1))
		require.True(t, ok)
		second, ok := m.Process(pulse(ir.Low, 1))
		require.True(t, ok)

		assert.Equal(t, start, m.On(), "two low pulses must restore the state")
		if start {
			assert.Equal(t, []ir.Level{ir.Low, ir.High}, []ir.Level{first, second})
		} else {
			assert.Equal(t, []ir.Level{ir.High, ir.Low}, []ir.Level{first, second})
		}
	}
}

func TestConjunction_InitialMemoryIsLow(t *testing.T) {
	m := NewConjunction(0, "c", []ir.ModuleID{3}, []ir.ModuleID{1, 2})

	for _, in := range []ir.ModuleID{1, 2} {
		l, ok := m.Remembered(in)
		require.True(t, ok)
		assert.Equal(t, ir.Low, l)
	}
	_, ok := m.Remembered(7)
	assert.False(t, ok)
	assert.False(t, m.AllHigh())
}

func TestConjunction_DuplicateInputsCollapse(t *testing.T) {
	m := NewConjunction(0, "c", nil, []ir.ModuleID{1, 2, 1})
	assert.Equal(t, []ir.ModuleID{1, 2}, m.Inputs())
}

func TestConjunction_EmitsLowIffAllHigh(t *testing.T) {
	inputs := []ir.ModuleID{1, 2, 3}
	m := NewConjunction(0, "c", []ir.ModuleID{4}, inputs)

	// Walk a fixed sequence of input changes; after each one the emitted
	// level must be Low exactly when every remembered input is High.
	steps := []ir.Pulse{
		pulse(ir.High, 1),
		pulse(ir.High, 2),
		pulse(ir.High, 2),
		pulse(ir.High, 3),
		pulse(ir.Low, 1),
		pulse(ir.High, 1),
		pulse(ir.Low, 3),
		pulse(ir.Low, 3),
		pulse(ir.High, 3),
	}
	for i, p := range steps {
		out, ok := m.Process(p)
		require.True(t, ok, "conjunction always emits (step %d)", i)

		allHigh := true
		for _, in := range inputs {
			l, _ := m.Remembered(in)
			if l != ir.High {
				allHigh = false
			}
		}
		assert.Equal(t, allHigh, m.AllHigh(), "step %d", i)
		if allHigh {
			assert.Equal(t, ir.Low, out, "step %d", i)
		} else {
			assert.Equal(t, ir.High, out, "step %d", i)
		}
	}
	assert.Len(t, m.Inputs(), 3, "tracked input set never changes size")
}

func TestConjunction_SingleInputIsInverter(t *testing.T) {
	m := NewConjunction(0, "inv", []ir.ModuleID{2}, []ir.ModuleID{1})

	out, _ := m.Process(pulse(ir.High, 1))
	assert.Equal(t, ir.Low, out)
	out, _ = m.Process(pulse(ir.Low, 1))
	assert.Equal(t, ir.High, out)
}

func TestConjunction_UntrackedSenderPanics(t *testing.T) {
	m := NewConjunction(0, "c", nil, []ir.ModuleID{1})

	assert.PanicsWithError(t,
		`internal fault in conjunction "c" on high pulse: pulse from untracked input 5`,
		func() { m.Process(pulse(ir.High, 5)) })
}

func TestProcess_UnreachableKindsPanic(t *testing.T) {
	tests := []struct {
		name string
		mod  Module
	}{
		{"source", NewSource(0, ButtonName, 1)},
		{"sink", NewSink(0, "output")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				assert.True(t, IsInternalFault(err))
			}()
			tt.mod.Process(pulse(ir.Low, 1))
		})
	}
}

func TestProcess_UndefinedLevelPanics(t *testing.T) {
	m := NewBroadcaster(0, BroadcasterName, nil)
	assert.Panics(t, func() { m.Process(pulse(ir.Level(9), 1)) })
}

func TestSource_Trigger(t *testing.T) {
	m := NewSource(4, ButtonName, 0)

	level, to := m.Trigger()
	assert.Equal(t, ir.Low, level)
	assert.Equal(t, ir.ModuleID(0), to)

	ff := NewFlipFlop(1, "a", nil)
	assert.Panics(t, func() { ff.Trigger() })
}

func TestModule_Reset(t *testing.T) {
	ff := NewFlipFlop(0, "a", nil)
	ff.Process(pulse(ir.Low, 1))
	require.True(t, ff.On())
	ff.Reset()
	assert.False(t, ff.On())

	c := NewConjunction(1, "c", nil, []ir.ModuleID{0})
	c.Process(pulse(ir.High, 0))
	require.True(t, c.AllHigh())
	c.Reset()
	l, _ := c.Remembered(0)
	assert.Equal(t, ir.Low, l)
	assert.False(t, c.AllHigh())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "flip-flop", KindFlipFlop.String())
	assert.Equal(t, "conjunction", KindConjunction.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
