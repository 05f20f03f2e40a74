package engine

import (
	"errors"
	"fmt"
)

// pulseQuota counts pulses dequeued within one press and enforces a limit.
//
// Valid wirings can loop forever: a conjunction that feeds itself emits on
// every input it receives. The quota turns such a press into an error
// instead of a hang. A limit of 0 disables the check.
type pulseQuota struct {
	limit   int
	current int
}

func newPulseQuota(limit int) *pulseQuota {
	return &pulseQuota{limit: limit}
}

// Check counts one pulse and reports whether the limit was exceeded.
func (q *pulseQuota) Check(press int) error {
	q.current++
	if q.limit > 0 && q.current > q.limit {
		return &PulsesExceededError{
			Press:  press,
			Pulses: q.current,
			Limit:  q.limit,
		}
	}
	return nil
}

// PulsesExceededError is returned when a press does not settle within the
// configured number of pulses. The network is left mid-press and should be
// discarded.
type PulsesExceededError struct {
	Press  int // 1-based press that failed to settle
	Pulses int // pulses dequeued when the limit tripped
	Limit  int
}

func (e *PulsesExceededError) Error() string {
	return fmt.Sprintf("press %d did not settle: %d pulses > %d limit", e.Press, e.Pulses, e.Limit)
}

// IsPulsesExceeded returns true if err is or wraps a *PulsesExceededError.
func IsPulsesExceeded(err error) bool {
	var pe *PulsesExceededError
	return errors.As(err, &pe)
}
