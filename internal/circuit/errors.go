package circuit

import (
	"errors"
	"fmt"

	"github.com/roach88/pulsenet/internal/ir"
)

// InternalFault is the panic value raised when a module is asked to do
// something its kind cannot do. It always indicates a bug in the builder or
// the scheduler, never bad input.
type InternalFault struct {
	Module string
	Kind   Kind
	Level  ir.Level
	Reason string
}

func (f *InternalFault) Error() string {
	return fmt.Sprintf("internal fault in %s %q on %s pulse: %s", f.Kind, f.Module, f.Level, f.Reason)
}

// IsInternalFault returns true if err is or wraps an *InternalFault.
func IsInternalFault(err error) bool {
	var f *InternalFault
	return errors.As(err, &f)
}
