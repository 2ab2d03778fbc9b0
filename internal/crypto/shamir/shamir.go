// Package shamir splits a scalar into shares evaluated at caller-chosen
// x-coordinates and recovers it by Lagrange interpolation at zero.
package shamir

import (
	"errors"
	"fmt"
	"io"

	"github.com/smallyu/go-sss/internal/crypto/curves"
	"github.com/smallyu/go-sss/internal/crypto/polynomial"
)

var (
	ErrZeroIdentifier      = errors.New("identifier reduces to zero")
	ErrDuplicateIdentifier = errors.New("identifiers are not distinct")
	ErrThreshold           = errors.New("threshold out of range")
)

// Split evaluates a random polynomial of degree threshold-1 with constant term
// secret at every x in xs. The returned ys are in the order of xs.
func Split(curve curves.Curve, secret curves.Scalar, xs []curves.Scalar, threshold int, r io.Reader) ([]curves.Scalar, error) {
	if threshold < 1 || threshold > len(xs) {
		return nil, fmt.Errorf("%w: threshold %d with %d identifiers", ErrThreshold, threshold, len(xs))
	}
	if err := checkIdentifiers(xs); err != nil {
		return nil, err
	}

	poly, err := polynomial.New(curve, threshold-1, secret, r)
	if err != nil {
		return nil, fmt.Errorf("failed to sample polynomial: %w", err)
	}
	return poly.EvaluateMulti(xs), nil
}

// Combine interpolates the points (xs[i], ys[i]) at zero. Any threshold-sized
// subset of the points produced by Split recovers the secret; fewer points
// produce an unrelated value.
func Combine(curve curves.Curve, xs, ys []curves.Scalar) (curves.Scalar, error) {
	if err := checkIdentifiers(xs); err != nil {
		return nil, err
	}
	return polynomial.InterpolateAtZero(curve, xs, ys)
}

func checkIdentifiers(xs []curves.Scalar) error {
	seen := make(map[string]int, len(xs))
	for i, x := range xs {
		if x.IsZero() {
			return fmt.Errorf("%w: index %d", ErrZeroIdentifier, i)
		}
		key := string(x.Bytes())
		if j, ok := seen[key]; ok {
			return fmt.Errorf("%w: indices %d and %d", ErrDuplicateIdentifier, j, i)
		}
		seen[key] = i
	}
	return nil
}
