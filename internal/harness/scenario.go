package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pulsenet/internal/engine"
)

// Scenario defines one conformance run: a wiring, how to drive it and what
// it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Wiring is the wiring text inline. Exactly one of Wiring and
	// WiringFile must be set.
	Wiring string `yaml:"wiring,omitempty"`

	// WiringFile is a path to a wiring file, relative to the scenario file.
	WiringFile string `yaml:"wiring_file,omitempty"`

	// Presses is the number of button presses.
	Presses int `yaml:"presses"`

	// Discipline is "fifo" (default) or "lifo".
	Discipline string `yaml:"discipline,omitempty"`

	// MaxPulses bounds each press. 0 means unlimited.
	MaxPulses int `yaml:"max_pulses,omitempty"`

	// TracePresses is how many leading presses are recorded for trace
	// assertions and golden comparison. Defaults to 1.
	TracePresses int `yaml:"trace_presses,omitempty"`

	// RunID is a fixed run id for deterministic output. Defaults to
	// "scenario-<name>".
	RunID string `yaml:"run_id,omitempty"`

	// Expect checks the aggregated totals.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions check the trace, per-press counts and final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ExpectClause lists expected totals. Unset fields are not checked.
type ExpectClause struct {
	Low     *int64 `yaml:"low,omitempty"`
	High    *int64 `yaml:"high,omitempty"`
	Product *int64 `yaml:"product,omitempty"`
	Digest  string `yaml:"digest,omitempty"`
}

// Assertion validates the recorded trace, a press, or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Pulse is a rendered pulse line, "from -level-> to" (trace_contains,
	// trace_count).
	Pulse string `yaml:"pulse,omitempty"`

	// Pulses is an ordered list of pulse lines (trace_order).
	Pulses []string `yaml:"pulses,omitempty"`

	// Count is the exact number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Press is the 1-based press number (press_counts).
	Press int `yaml:"press,omitempty"`

	// Low and High are the expected counts for Press (press_counts).
	Low  int64 `yaml:"low,omitempty"`
	High int64 `yaml:"high,omitempty"`

	// Module and State name a stateful module and its rendered state
	// (final_state).
	Module string `yaml:"module,omitempty"`
	State  string `yaml:"state,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertPressCounts   = "press_counts"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file. A relative
// wiring_file is resolved against the scenario's directory. Unknown fields
// are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.WiringFile != "" && !filepath.IsAbs(scenario.WiringFile) {
		scenario.WiringFile = filepath.Join(filepath.Dir(path), scenario.WiringFile)
	}
	if scenario.WiringFile != "" {
		if _, err := os.Stat(scenario.WiringFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: wiring file not found: %s", scenario.WiringFile)
		}
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML. wiring_file is left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file
// name. It stops at the first file that fails to load.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Wiring == "" && s.WiringFile == "":
		return fmt.Errorf("one of wiring or wiring_file is required")
	case s.Wiring != "" && s.WiringFile != "":
		return fmt.Errorf("wiring and wiring_file are mutually exclusive")
	}

	if s.Presses < 0 {
		return fmt.Errorf("presses must be non-negative, got %d", s.Presses)
	}
	if s.MaxPulses < 0 {
		return fmt.Errorf("max_pulses must be non-negative, got %d", s.MaxPulses)
	}
	if s.TracePresses < 0 {
		return fmt.Errorf("trace_presses must be non-negative, got %d", s.TracePresses)
	}
	if _, err := engine.ParseDiscipline(s.Discipline); err != nil {
		return err
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Pulse == "" {
			return fmt.Errorf("assertions[%d]: pulse is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Pulses) == 0 {
			return fmt.Errorf("assertions[%d]: pulses list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Pulse == "" {
			return fmt.Errorf("assertions[%d]: pulse is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertPressCounts:
		if a.Press < 1 {
			return fmt.Errorf("assertions[%d]: press must be >= 1 for press_counts", index)
		}
	case AssertFinalState:
		if a.Module == "" {
			return fmt.Errorf("assertions[%d]: module is required for final_state", index)
		}
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
