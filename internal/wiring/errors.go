package wiring

import (
	"errors"
	"fmt"
)

// MalformedWiringError reports a declaration that cannot be turned into a
// module. Line is 1-based; 0 means the problem concerns the whole text.
type MalformedWiringError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedWiringError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("malformed wiring: %s", e.Reason)
	}
	return fmt.Sprintf("malformed wiring at line %d (%q): %s", e.Line, e.Text, e.Reason)
}

// IsMalformedWiring returns true if err is or wraps a *MalformedWiringError.
func IsMalformedWiring(err error) bool {
	var me *MalformedWiringError
	return errors.As(err, &me)
}

func malformed(line int, text, format string, args ...any) *MalformedWiringError {
	return &MalformedWiringError{Line: line, Text: text, Reason: fmt.Sprintf(format, args...)}
}
