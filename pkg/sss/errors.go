package sss

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the split/combine workflow. Callers distinguish them
// with errors.Is; every wrapped error in this module unwraps to one of these.
var (
	ErrMalformedHex            = errors.New("malformed hex")
	ErrInvalidSecretLength     = errors.New("secret must be exactly 32 bytes")
	ErrScalarOutOfRange        = errors.New("scalar out of range for curve")
	ErrSecureRandomUnavailable = errors.New("secure random source unavailable")
	ErrRandomnessExhausted     = errors.New("randomness exhausted")
	ErrBackendNotInitialized   = errors.New("backend not initialized")
	ErrBackendUnavailable      = errors.New("backend unavailable")
	ErrUnsupportedCurve        = errors.New("unsupported curve")
	ErrMalformedBackendOutput  = errors.New("malformed backend output")
	ErrInsufficientShares      = errors.New("insufficient shares")

	ErrInvalidThreshold = errors.New("invalid threshold parameters")
	ErrUnknownCurve     = errors.New("unknown curve")
	ErrInvalidSelection = errors.New("invalid share selection")
	ErrInvalidState     = errors.New("operation not valid in current phase")
)

// StepError reports which workflow step failed.
// It allows the caller to tell where the workflow stopped without losing the
// underlying error kind.
type StepError struct {
	Step  string
	Phase string
	Err   error
}

func (e *StepError) Error() string {
	if e.Phase != "" {
		return fmt.Sprintf("%s (phase %s): %v", e.Step, e.Phase, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError creates a new StepError.
func NewStepError(step, phase string, err error) *StepError {
	return &StepError{
		Step:  step,
		Phase: phase,
		Err:   err,
	}
}
