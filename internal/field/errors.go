package field

import (
	"errors"
	"fmt"
)

// Domain errors for setup and propagation.
var (
	// ErrConfiguration indicates an invalid setup, impulse, dispersion or
	// Raman parameter. It is always reported before integration begins.
	ErrConfiguration = errors.New("gnlse: invalid configuration")

	// ErrNumericalDivergence indicates that integration could not continue.
	ErrNumericalDivergence = errors.New("gnlse: numerical divergence")

	// ErrStepTooSmall indicates the adaptive step fell below the step floor
	// without meeting the tolerance.
	ErrStepTooSmall = errors.New("gnlse: adaptive step below minimum")

	// ErrNonFinite indicates a NaN or Inf in the field or the error estimate.
	ErrNonFinite = errors.New("gnlse: non-finite field (NaN or Inf detected)")

	// ErrTooManySteps indicates the configured step budget was exhausted.
	ErrTooManySteps = errors.New("gnlse: step budget exhausted")
)

// ConfigError names the offending parameter of an invalid setup.
type ConfigError struct {
	Param  string
	Reason string
}

// Configf returns a *ConfigError for param with a formatted reason.
func Configf(param, format string, args ...any) *ConfigError {
	return &ConfigError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Param, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// DivergenceError wraps a numerical failure with the propagation distance
// and accepted step count at which it was detected.
type DivergenceError struct {
	Z       float64
	Step    int
	Wrapped error
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%s at z=%g (step %d): %v", ErrNumericalDivergence, e.Z, e.Step, e.Wrapped)
}

func (e *DivergenceError) Is(target error) bool {
	return target == ErrNumericalDivergence
}

func (e *DivergenceError) Unwrap() error {
	return e.Wrapped
}
