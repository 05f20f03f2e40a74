package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/ir"
)

var _ engine.Observer = (*Recorder)(nil)

// Entry is one recorded pulse with module ids resolved to names.
type Entry struct {
	Seq   int64    `json:"seq"`
	Press int      `json:"press"`
	From  string   `json:"from"`
	Level ir.Level `json:"level"`
	To    string   `json:"to"`
}

// String renders the entry as "from -level-> to".
func (e Entry) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.From, e.Level, e.To)
}

// Recorder is an engine.Observer that keeps pulses from a window of presses.
// Not safe for concurrent use; it belongs to the engine's goroutine.
type Recorder struct {
	net     *circuit.Network
	first   int // 0 = from the first press
	last    int // 0 = no upper bound
	entries []Entry
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithPressWindow keeps only pulses whose press number is within
// [first, last]. A zero bound is open.
func WithPressWindow(first, last int) Option {
	return func(r *Recorder) {
		r.first = first
		r.last = last
	}
}

// NewRecorder creates a Recorder resolving names against net.
func NewRecorder(net *circuit.Network, opts ...Option) *Recorder {
	r := &Recorder{net: net}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe records p if its press falls inside the window.
func (r *Recorder) Observe(p ir.Pulse) {
	if r.first > 0 && p.Press < r.first {
		return
	}
	if r.last > 0 && p.Press > r.last {
		return
	}
	r.entries = append(r.entries, Entry{
		Seq:   p.Seq,
		Press: p.Press,
		From:  r.net.Name(p.From),
		Level: p.Level,
		To:    r.net.Name(p.To),
	})
}

// Entries returns the recorded pulses in dequeue order.
func (r *Recorder) Entries() []Entry {
	return r.entries
}

// Len returns the number of recorded pulses.
func (r *Recorder) Len() int {
	return len(r.entries)
}

// Presses returns the distinct press numbers recorded, ascending.
func (r *Recorder) Presses() []int {
	return presses(r.entries)
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.entries = r.entries[:0]
}

// String renders the log as WriteTo would.
func (r *Recorder) String() string {
	return Format(r.entries)
}

// WriteTo writes the log to w, one pulse per line.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, Format(r.entries))
	return int64(n), err
}

// Format renders entries one per line. A "# press N" header precedes each
// press when entries span more than one press.
func Format(entries []Entry) string {
	headers := len(presses(entries)) > 1

	var b strings.Builder
	press := 0
	for _, e := range entries {
		if headers && e.Press != press {
			if press != 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "# press %d\n", e.Press)
			press = e.Press
		}
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func presses(entries []Entry) []int {
	var out []int
	for _, e := range entries {
		if len(out) == 0 || out[len(out)-1] != e.Press {
			out = append(out, e.Press)
		}
	}
	return out
}
