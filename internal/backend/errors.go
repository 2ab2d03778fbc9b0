package backend

import (
	"fmt"
	"strings"

	"github.com/smallyu/go-sss/pkg/sss"
)

// Attempt records one calling shape that was tried and how it failed.
type Attempt struct {
	Shape Shape
	Err   error
}

// NegotiationError reports that every eligible calling shape failed.
// It unwraps to sss.ErrBackendUnavailable and to each attempt's error.
type NegotiationError struct {
	Op       string
	Curve    sss.Curve
	Attempts []Attempt
}

func (e *NegotiationError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Shape, a.Err)
	}
	return fmt.Sprintf("%s on %s: no calling shape succeeded [%s]", e.Op, e.Curve, strings.Join(parts, "; "))
}

func (e *NegotiationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts)+1)
	errs = append(errs, sss.ErrBackendUnavailable)
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}
