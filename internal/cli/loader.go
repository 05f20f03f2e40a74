package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/config"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/wiring"
)

// Error codes for CLI responses.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeMalformed      = "E201" // Malformed wiring text
	ErrCodeProfile        = "E202" // Run profile failed schema validation
	ErrCodeUsage          = "E203" // Bad flag or argument combination
	ErrCodeNotSettled     = "E301" // A press exceeded --max-pulses
	ErrCodeInterrupted    = "E302" // Run cancelled between presses
	ErrCodeNonDeterminism = "E303" // Replays produced different digests
	ErrCodeTestFailed     = "E_TEST_FAILED"
)

// LoadError is a classified failure to load CLI inputs.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadNetwork reads and parses a wiring file, classifying the failure.
func loadNetwork(path string) (*circuit.Network, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("wiring file not found: %s", path), Err: err}
	}

	net, err := wiring.Load(path)
	if err != nil {
		if wiring.IsMalformedWiring(err) {
			return nil, &LoadError{Code: ErrCodeMalformed, Message: err.Error(), Err: err}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
	}
	return net, nil
}

// loadProfile reads a run profile, or returns the defaults when path is
// empty.
func loadProfile(path string) (config.Profile, error) {
	if path == "" {
		return config.Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Profile{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("profile not found: %s", path), Err: err}
	}

	p, err := config.Load(path)
	if err != nil {
		if config.IsConfigError(err) {
			return config.Profile{}, &LoadError{Code: ErrCodeProfile, Message: err.Error(), Err: err}
		}
		return config.Profile{}, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
	}
	return p, nil
}

// runErrorCode classifies an engine.Run failure.
func runErrorCode(err error) string {
	switch {
	case engine.IsPulsesExceeded(err):
		return ErrCodeNotSettled
	case errors.Is(err, context.Canceled):
		return ErrCodeInterrupted
	default:
		return ErrCodeGeneric
	}
}
