package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/tally"
	"github.com/roach88/pulsenet/internal/testutil"
	"github.com/roach88/pulsenet/internal/trace"
	"github.com/roach88/pulsenet/internal/wiring"
)

// Run executes a scenario and returns the result. Expectation and assertion
// failures are reported in Result.Errors; the error return is reserved for
// scenarios that cannot run at all (bad wiring, a press that never settles).
//
// Each run parses its own network, so scenarios never share module state.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context, checked between presses.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	net, err := loadWiring(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load wiring: %w", err)
	}

	discipline, err := engine.ParseDiscipline(scenario.Discipline)
	if err != nil {
		return nil, err
	}

	tracePresses := scenario.TracePresses
	if tracePresses == 0 {
		tracePresses = 1
	}
	runID := scenario.RunID
	if runID == "" {
		runID = "scenario-" + scenario.Name
	}

	rec := trace.NewRecorder(net, trace.WithPressWindow(1, tracePresses))
	perPress := &pressCollector{}
	eng := engine.New(net,
		engine.WithDiscipline(discipline),
		engine.WithMaxPulses(scenario.MaxPulses),
		engine.WithObserver(rec),
		engine.WithObserver(perPress),
		engine.WithRunIDGenerator(testutil.NewConstantRunID(runID)),
	)

	run, err := eng.Run(ctx, scenario.Presses)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.RunID = run.RunID
	result.Presses = run.Presses
	result.Counts = run.Counts
	result.Product = run.Product
	result.Digest = run.Digest
	result.PressStats = perPress.stats
	result.Trace = append(result.Trace, rec.Entries()...)
	result.State = net.Snapshot()

	Check(scenario, result)

	slog.Debug("scenario complete",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"product", result.Product,
		"failures", len(result.Errors),
	)
	return result, nil
}

func loadWiring(s *Scenario) (*circuit.Network, error) {
	if s.WiringFile != "" {
		return wiring.Load(s.WiringFile)
	}
	return wiring.ParseString(s.Wiring)
}

// pressCollector builds per-press statistics from the pulse stream.
type pressCollector struct {
	stats []engine.PressStats
}

func (c *pressCollector) Observe(p ir.Pulse) {
	if n := len(c.stats); n == 0 || c.stats[n-1].Press != p.Press {
		c.stats = append(c.stats, engine.PressStats{Press: p.Press, Counts: tally.Counts{}})
	}
	last := &c.stats[len(c.stats)-1]
	last.Pulses++
	last.Counts.Add(p.Level)
}
