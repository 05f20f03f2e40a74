// Package tally aggregates pulse levels across presses.
//
// A Counter is attached to the engine as an observer and sees every pulse
// the scheduler dequeues, including pulses addressed to sinks. The published
// statistic is the product of the low and high totals.
package tally

import "github.com/roach88/pulsenet/internal/ir"

// Counts holds the two running totals.
type Counts struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// Add counts one pulse of level l.
func (c *Counts) Add(l ir.Level) {
	if l == ir.High {
		c.High++
		return
	}
	c.Low++
}

// Plus returns the element-wise sum of c and o.
func (c Counts) Plus(o Counts) Counts {
	return Counts{Low: c.Low + o.Low, High: c.High + o.High}
}

// Total returns Low + High.
func (c Counts) Total() int64 {
	return c.Low + c.High
}

// Product returns Low * High. With no pulses seen it is 0, not 1.
func (c Counts) Product() int64 {
	return c.Low * c.High
}

// Counter is an engine observer accumulating Counts.
// It is not safe for concurrent use.
type Counter struct {
	counts Counts
}

// NewCounter returns a zeroed Counter.
func NewCounter() *Counter {
	return &Counter{}
}

// Observe counts p.
func (c *Counter) Observe(p ir.Pulse) {
	c.counts.Add(p.Level)
}

// Counts returns the totals so far.
func (c *Counter) Counts() Counts {
	return c.counts
}

// Low returns the number of low pulses seen.
func (c *Counter) Low() int64 { return c.counts.Low }

// High returns the number of high pulses seen.
func (c *Counter) High() int64 { return c.counts.High }

// Product returns Low * High.
func (c *Counter) Product() int64 { return c.counts.Product() }

// Reset zeroes the totals.
func (c *Counter) Reset() {
	c.counts = Counts{}
}
