package curves

import (
	"fmt"
	"io"
	"math/big"

	"github.com/smallyu/go-sss/pkg/sss"
)

// Scalar represents a value in a curve's scalar field.
// Scalars are immutable; arithmetic returns new values.
type Scalar interface {
	// Bytes returns the 32-byte big-endian encoding.
	Bytes() []byte

	// BigInt returns the scalar as a big integer.
	BigInt() *big.Int

	Add(s Scalar) Scalar
	Sub(s Scalar) Scalar
	Mul(s Scalar) Scalar

	// Invert returns the modular inverse. The inverse of zero is zero.
	Invert() Scalar

	IsZero() bool
	Equal(s Scalar) bool
}

// Curve exposes the scalar field of an elliptic curve.
type Curve interface {
	// Name returns the curve identifier.
	Name() sss.Curve

	// Order returns the order of the base point (group order).
	Order() *big.Int

	// NewScalar draws a uniformly random scalar from r.
	NewScalar(r io.Reader) (Scalar, error)

	// NewScalarFromBytes decodes a 32-byte big-endian value.
	NewScalarFromBytes(b []byte) (Scalar, error)

	// NewScalarFromInt returns the scalar n mod order.
	NewScalarFromInt(n int64) Scalar
}

// ForCurve returns the scalar field for c.
func ForCurve(c sss.Curve) (Curve, error) {
	switch c {
	case sss.Secp256k1:
		return NewSecp256k1(), nil
	case sss.Secp256r1:
		return NewP256(), nil
	case sss.Ed25519:
		return NewEd25519(), nil
	default:
		return nil, fmt.Errorf("%w: %q", sss.ErrUnknownCurve, string(c))
	}
}

func checkLen(b []byte) error {
	if len(b) != sss.ScalarSize {
		return fmt.Errorf("scalar must be %d bytes, got %d", sss.ScalarSize, len(b))
	}
	return nil
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}
