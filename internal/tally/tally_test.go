package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/pulsenet/internal/ir"
)

func TestCounts_ZeroProductIsZero(t *testing.T) {
	var c Counts
	assert.Equal(t, int64(0), c.Total())
	assert.Equal(t, int64(0), c.Product(), "no pulses seen must yield 0, not 1")
}

func TestCounts_AddAndProduct(t *testing.T) {
	var c Counts
	for i := 0; i < 8; i++ {
		c.Add(ir.Low)
	}
	for i := 0; i < 4; i++ {
		c.Add(ir.High)
	}

	assert.Equal(t, Counts{Low: 8, High: 4}, c)
	assert.Equal(t, int64(12), c.Total())
	assert.Equal(t, int64(32), c.Product())
}

func TestCounts_OneSidedProductIsZero(t *testing.T) {
	c := Counts{Low: 5}
	assert.Equal(t, int64(0), c.Product())
}

func TestCounts_Plus(t *testing.T) {
	a := Counts{Low: 4, High: 4}
	b := Counts{Low: 4, High: 2}
	assert.Equal(t, Counts{Low: 8, High: 6}, a.Plus(b))
}

func TestCounter_Observe(t *testing.T) {
	c := NewCounter()
	c.Observe(ir.Pulse{Level: ir.Low, To: 3})
	c.Observe(ir.Pulse{Level: ir.High, To: 1})
	c.Observe(ir.Pulse{Level: ir.Low, To: 99}) // sinks are counted too

	assert.Equal(t, int64(2), c.Low())
	assert.Equal(t, int64(1), c.High())
	assert.Equal(t, int64(2), c.Product())
	assert.Equal(t, Counts{Low: 2, High: 1}, c.Counts())

	c.Reset()
	assert.Equal(t, Counts{}, c.Counts())
}
