package polynomial

import (
	"errors"
	"fmt"
	"io"

	"github.com/smallyu/go-sss/internal/crypto/curves"
)

// Polynomial represents a polynomial f(x) = a_0 + a_1*x + ... + a_t*x^t
// over the scalar field of the curve.
type Polynomial struct {
	Coefficients []curves.Scalar
	Curve        curves.Curve
}

// New generates a random polynomial of given degree with the constant term (secret) provided.
// If secret is nil, a random constant term is generated.
func New(curve curves.Curve, degree int, secret curves.Scalar, r io.Reader) (*Polynomial, error) {
	if degree < 0 {
		return nil, fmt.Errorf("negative degree %d", degree)
	}
	coeffs := make([]curves.Scalar, degree+1)
	var err error

	// a_0 is the secret
	if secret == nil {
		coeffs[0], err = curve.NewScalar(r)
		if err != nil {
			return nil, err
		}
	} else {
		coeffs[0] = secret
	}

	// Generate random coefficients a_1 ... a_t
	for i := 1; i <= degree; i++ {
		coeffs[i], err = curve.NewScalar(r)
		if err != nil {
			return nil, err
		}
	}

	return &Polynomial{
		Coefficients: coeffs,
		Curve:        curve,
	}, nil
}

// Degree returns t.
func (p *Polynomial) Degree() int {
	return len(p.Coefficients) - 1
}

// Evaluate calculates f(x) mod q
func (p *Polynomial) Evaluate(x curves.Scalar) curves.Scalar {
	// Horner's method
	// result = a_t
	// for i = t-1 down to 0:
	//   result = result * x + a_i
	degree := p.Degree()
	result := p.Coefficients[degree]

	for i := degree - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.Coefficients[i])
	}

	return result
}

// EvaluateMulti calculates f(x) for multiple x values
func (p *Polynomial) EvaluateMulti(xs []curves.Scalar) []curves.Scalar {
	results := make([]curves.Scalar, len(xs))
	for i, x := range xs {
		results[i] = p.Evaluate(x)
	}
	return results
}

var ErrDuplicateX = errors.New("duplicate interpolation point")

// InterpolateAtZero recovers f(0) from the points (xs[i], ys[i]) with
// Lagrange interpolation:
//
//	f(0) = sum_i y_i * prod_{j != i} x_j / (x_j - x_i)
func InterpolateAtZero(curve curves.Curve, xs, ys []curves.Scalar) (curves.Scalar, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("got %d x values and %d y values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, errors.New("no points to interpolate")
	}

	secret := curve.NewScalarFromInt(0)
	for i := range xs {
		num := curve.NewScalarFromInt(1)
		den := curve.NewScalarFromInt(1)
		for j := range xs {
			if i == j {
				continue
			}
			diff := xs[j].Sub(xs[i])
			if diff.IsZero() {
				return nil, ErrDuplicateX
			}
			num = num.Mul(xs[j])
			den = den.Mul(diff)
		}
		secret = secret.Add(ys[i].Mul(num).Mul(den.Invert()))
	}
	return secret, nil
}
