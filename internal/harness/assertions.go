package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/pulsenet/internal/trace"
)

// AssertionError is returned when an assertion fails. It carries the
// recorded trace for debugging.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Trace    []trace.Entry // Recorded trace, may be empty
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nRecorded trace:\n")
		for i, entry := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, entry)
		}
	}

	return buf.String()
}

// normalizePulse collapses runs of whitespace so "a  -high->  b" matches.
func normalizePulse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// assertTraceContains checks that the pulse line appears in the trace.
func assertTraceContains(tr []trace.Entry, assertion Assertion) error {
	want := normalizePulse(assertion.Pulse)
	for _, e := range tr {
		if e.String() == want {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("pulse %q", want),
		Actual:   "not found in trace",
		Trace:    tr,
	}
}

// assertTraceOrder checks that the pulse lines appear in the given order.
// Lines need not be consecutive; each is matched after the previous match.
func assertTraceOrder(tr []trace.Entry, assertion Assertion) error {
	pos := 0
	for i, p := range assertion.Pulses {
		want := normalizePulse(p)
		found := false
		for pos < len(tr) {
			line := tr[pos].String()
			pos++
			if line == want {
				found = true
				break
			}
		}
		if !found {
			actual := fmt.Sprintf("%q not found in trace", want)
			if i > 0 {
				actual = fmt.Sprintf("%q not found after %q", want, normalizePulse(assertion.Pulses[i-1]))
			}
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("pulses in order: %v", assertion.Pulses),
				Actual:   actual,
				Trace:    tr,
			}
		}
	}
	return nil
}

// assertTraceCount checks that the pulse line appears exactly Count times.
func assertTraceCount(tr []trace.Entry, assertion Assertion) error {
	want := normalizePulse(assertion.Pulse)
	count := 0
	for _, e := range tr {
		if e.String() == want {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("pulse %q appears %d times", want, assertion.Count),
			Actual:   fmt.Sprintf("appears %d times", count),
			Trace:    tr,
		}
	}
	return nil
}

// assertPressCounts checks the low/high counts of one press.
func assertPressCounts(result *Result, assertion Assertion) error {
	if assertion.Press > len(result.PressStats) {
		return &AssertionError{
			Type:     AssertPressCounts,
			Expected: fmt.Sprintf("press %d", assertion.Press),
			Actual:   fmt.Sprintf("only %d presses ran", len(result.PressStats)),
		}
	}

	got := result.PressStats[assertion.Press-1].Counts
	if got.Low != assertion.Low || got.High != assertion.High {
		return &AssertionError{
			Type:     AssertPressCounts,
			Expected: fmt.Sprintf("press %d: %d low, %d high", assertion.Press, assertion.Low, assertion.High),
			Actual:   fmt.Sprintf("%d low, %d high", got.Low, got.High),
		}
	}
	return nil
}

// assertFinalState checks a stateful module's snapshot after the last press.
func assertFinalState(result *Result, assertion Assertion) error {
	got, ok := result.State[assertion.Module]
	if !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("module %q in state %q", assertion.Module, assertion.State),
			Actual:   "no such stateful module",
		}
	}
	if got != assertion.State {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("module %q in state %q", assertion.Module, assertion.State),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

// checkExpect compares the totals against an expect clause.
func checkExpect(result *Result, expect *ExpectClause) []string {
	if expect == nil {
		return nil
	}

	var errs []string
	mismatch := func(field string, want, got any) {
		errs = append(errs, fmt.Sprintf("expect.%s: expected %v, got %v", field, want, got))
	}
	if expect.Low != nil && *expect.Low != result.Counts.Low {
		mismatch("low", *expect.Low, result.Counts.Low)
	}
	if expect.High != nil && *expect.High != result.Counts.High {
		mismatch("high", *expect.High, result.Counts.High)
	}
	if expect.Product != nil && *expect.Product != result.Product {
		mismatch("product", *expect.Product, result.Product)
	}
	if expect.Digest != "" && expect.Digest != result.Digest {
		mismatch("digest", expect.Digest, result.Digest)
	}
	return errs
}

// EvaluateAssertions evaluates all assertions against the result and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertPressCounts:
			err = assertPressCounts(result, assertion)
		case AssertFinalState:
			err = assertFinalState(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}

// Check evaluates a scenario's expect clause and assertions against result,
// marking it failed on any mismatch. It returns the failure messages.
func Check(scenario *Scenario, result *Result) []string {
	errs := checkExpect(result, scenario.Expect)
	errs = append(errs, EvaluateAssertions(result, scenario.Assertions)...)
	for _, e := range errs {
		result.AddError(e)
	}
	return errs
}
