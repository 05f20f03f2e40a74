package harness

import (
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/tally"
	"github.com/roach88/pulsenet/internal/trace"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	RunID   string       `json:"run_id"`
	Presses int          `json:"presses"`
	Counts  tally.Counts `json:"counts"`
	Product int64        `json:"product"`
	Digest  string       `json:"digest"`

	// PressStats holds one entry per press, in press order.
	PressStats []engine.PressStats `json:"press_stats,omitempty"`

	// Trace holds the pulses of the first trace_presses presses.
	Trace []trace.Entry `json:"trace"`

	// State is the network snapshot after the last press.
	State map[string]string `json:"state,omitempty"`

	// Errors holds one message per failed expectation or assertion.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []trace.Entry{},
		Errors: []string{},
		State:  make(map[string]string),
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// TraceText renders the recorded trace the way trace.Recorder does.
func (r *Result) TraceText() string {
	return trace.Format(r.Trace)
}
