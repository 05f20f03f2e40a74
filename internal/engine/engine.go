package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/tally"
)

// Observer sees every pulse the engine dequeues, in dequeue order.
type Observer interface {
	Observe(p ir.Pulse)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(p ir.Pulse)

// Observe calls f(p).
func (f ObserverFunc) Observe(p ir.Pulse) { f(p) }

// Engine drives presses through one network.
//
// Thread-safety model: none. An Engine and its Network belong to one
// goroutine. Independent runs need independent engines over cloned networks.
//
// INVARIANTS:
//   - module state persists across presses and is only changed by Process
//   - observers are notified in registration order
//   - seq numbers are strictly increasing across the engine's lifetime
type Engine struct {
	net        *circuit.Network
	clock      *Clock
	observers  []Observer
	discipline Discipline
	maxPulses  int
	runIDs     RunIDGenerator
	presses    int // presses completed
}

// Option configures an Engine.
type Option func(*Engine)

// WithDiscipline selects the queue drain order. Default: FIFO.
func WithDiscipline(d Discipline) Option {
	return func(e *Engine) {
		e.discipline = d
	}
}

// WithMaxPulses bounds the pulses dequeued per press. Default 0: unlimited.
func WithMaxPulses(n int) Option {
	return func(e *Engine) {
		e.maxPulses = n
	}
}

// WithObserver registers an observer for every press.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithRunIDGenerator overrides the UUIDv7 run id generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// WithClock starts seq numbering from a pre-configured clock.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an Engine over net. The engine mutates net in place.
func New(net *circuit.Network, opts ...Option) *Engine {
	e := &Engine{
		net:        net,
		clock:      NewClock(),
		discipline: FIFO,
		runIDs:     UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Network returns the network the engine drives.
func (e *Engine) Network() *circuit.Network {
	return e.net
}

// Presses returns how many presses have settled.
func (e *Engine) Presses() int {
	return e.presses
}

// Discipline returns the configured drain order.
func (e *Engine) Discipline() Discipline {
	return e.discipline
}

// PressStats summarizes one settled press.
type PressStats struct {
	Press  int          `json:"press"`
	Pulses int          `json:"pulses"`
	Counts tally.Counts `json:"counts"`
}

// Press runs one trigger cycle to completion.
//
// The context is checked once before the button fires; a press that has
// started always drains. Returns *PulsesExceededError if the press does not
// settle within the configured limit.
func (e *Engine) Press(ctx context.Context) (PressStats, error) {
	return e.press(ctx, nil)
}

func (e *Engine) press(ctx context.Context, extra Observer) (PressStats, error) {
	if err := ctx.Err(); err != nil {
		return PressStats{}, err
	}

	num := e.presses + 1
	stats := PressStats{Press: num}
	quota := newPulseQuota(e.maxPulses)
	q := newPulseQueue(e.discipline)

	button := e.net.Module(e.net.Button())
	level, to := button.Trigger()
	q.Enqueue(ir.Pulse{Press: num, Level: level, From: button.ID, To: to})

	for {
		p, ok := q.TryDequeue()
		if !ok {
			break
		}
		if err := quota.Check(num); err != nil {
			slog.Error("press did not settle",
				"press", num,
				"pulses", stats.Pulses,
				"limit", e.maxPulses,
				"in_flight", q.Len(),
			)
			return stats, err
		}

		p.Seq = e.clock.Next()
		stats.Pulses++
		stats.Counts.Add(p.Level)
		for _, o := range e.observers {
			o.Observe(p)
		}
		if extra != nil {
			extra.Observe(p)
		}

		dest := e.net.Module(p.To)
		if dest.Kind == circuit.KindSink {
			continue
		}
		out, emit := dest.Process(p)
		if !emit {
			continue
		}
		for _, next := range dest.Outputs {
			q.Enqueue(ir.Pulse{Press: num, Level: out, From: dest.ID, To: next})
		}
	}

	e.presses = num
	slog.Debug("press settled",
		"press", num,
		"pulses", stats.Pulses,
		"low", stats.Counts.Low,
		"high", stats.Counts.High,
	)
	return stats, nil
}

// RunResult is the outcome of Run.
type RunResult struct {
	RunID      string       `json:"run_id"`
	Presses    int          `json:"presses"`
	Discipline string       `json:"discipline"`
	Counts     tally.Counts `json:"counts"`
	Product    int64        `json:"product"`
	Digest     string       `json:"digest"`
}

// Run presses the button n times and aggregates every dequeued pulse.
//
// The context is checked between presses. On error the partial counts are
// returned along with it.
func (e *Engine) Run(ctx context.Context, n int) (RunResult, error) {
	if n < 0 {
		return RunResult{}, fmt.Errorf("press count must be >= 0, got %d", n)
	}

	result := RunResult{
		RunID:      e.runIDs.Generate(),
		Discipline: e.discipline.String(),
	}
	counter := tally.NewCounter()

	slog.Info("run starting",
		"run_id", result.RunID,
		"presses", n,
		"discipline", e.discipline,
		"modules", e.net.Len(),
	)

	for i := 0; i < n; i++ {
		if _, err := e.press(ctx, counter); err != nil {
			result.Presses = i
			result.Counts = counter.Counts()
			result.Product = result.Counts.Product()
			return result, fmt.Errorf("run %s: %w", result.RunID, err)
		}
	}

	result.Presses = n
	result.Counts = counter.Counts()
	result.Product = counter.Product()

	digest, err := e.Digest(n, result.Counts)
	if err != nil {
		return result, fmt.Errorf("run %s: %w", result.RunID, err)
	}
	result.Digest = digest

	slog.Info("run complete",
		"run_id", result.RunID,
		"low", result.Counts.Low,
		"high", result.Counts.High,
		"product", result.Product,
	)
	return result, nil
}

// Digest fingerprints a run: press count, discipline, totals and the final
// state of every stateful module. The run id is not part of it.
func (e *Engine) Digest(presses int, counts tally.Counts) (string, error) {
	return ir.RunDigest(map[string]any{
		"presses":    presses,
		"discipline": e.discipline.String(),
		"low":        counts.Low,
		"high":       counts.High,
		"state":      e.net.Snapshot(),
	})
}
