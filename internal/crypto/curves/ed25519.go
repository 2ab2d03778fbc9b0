package curves

import (
	"fmt"
	"io"
	"math/big"

	"filippo.io/edwards25519"

	"github.com/smallyu/go-sss/pkg/sss"
)

type Ed25519Curve struct{}

// NewEd25519 returns the ed25519 scalar field.
func NewEd25519() Curve {
	return &Ed25519Curve{}
}

func (c *Ed25519Curve) Name() sss.Curve {
	return sss.Ed25519
}

func (c *Ed25519Curve) Order() *big.Int {
	// l = 2^252 + 27742317777372353535851937790883648493
	s, _ := new(big.Int).SetString("72370055773322622139731865630429942408571163593799076060019509382854542509893", 10)
	return s
}

func (c *Ed25519Curve) NewScalar(r io.Reader) (Scalar, error) {
	var b [64]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, err
	}

	s, err := edwards25519.NewScalar().SetUniformBytes(b[:])
	if err != nil {
		return nil, err
	}
	return &Ed25519Scalar{s: s}, nil
}

// NewScalarFromBytes decodes a big-endian value. Unlike the Weierstrass
// fields, values >= l are rejected rather than reduced.
func (c *Ed25519Curve) NewScalarFromBytes(b []byte) (Scalar, error) {
	if err := checkLen(b); err != nil {
		return nil, err
	}
	// edwards25519 uses little-endian.
	le := reverse(b)
	if CompareToOrderLE(le) != Less {
		return nil, fmt.Errorf("%w: value is not below l", sss.ErrScalarOutOfRange)
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(le)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sss.ErrScalarOutOfRange, err)
	}
	return &Ed25519Scalar{s: s}, nil
}

func (c *Ed25519Curve) NewScalarFromInt(n int64) Scalar {
	v := new(big.Int).Mod(big.NewInt(n), c.Order())
	// SetCanonicalBytes cannot fail for a value already reduced mod l.
	s, _ := edwards25519.NewScalar().SetCanonicalBytes(reverse(v.FillBytes(make([]byte, 32))))
	return &Ed25519Scalar{s: s}
}

// Ed25519Scalar implements Scalar
type Ed25519Scalar struct {
	s *edwards25519.Scalar
}

func (s *Ed25519Scalar) Bytes() []byte {
	return reverse(s.s.Bytes())
}

func (s *Ed25519Scalar) BigInt() *big.Int {
	return new(big.Int).SetBytes(s.Bytes())
}

func (s *Ed25519Scalar) Add(other Scalar) Scalar {
	o := other.(*Ed25519Scalar)
	return &Ed25519Scalar{s: edwards25519.NewScalar().Add(s.s, o.s)}
}

func (s *Ed25519Scalar) Sub(other Scalar) Scalar {
	o := other.(*Ed25519Scalar)
	return &Ed25519Scalar{s: edwards25519.NewScalar().Subtract(s.s, o.s)}
}

func (s *Ed25519Scalar) Mul(other Scalar) Scalar {
	o := other.(*Ed25519Scalar)
	return &Ed25519Scalar{s: edwards25519.NewScalar().Multiply(s.s, o.s)}
}

func (s *Ed25519Scalar) Invert() Scalar {
	return &Ed25519Scalar{s: edwards25519.NewScalar().Invert(s.s)}
}

func (s *Ed25519Scalar) IsZero() bool {
	return s.s.Equal(edwards25519.NewScalar()) == 1
}

func (s *Ed25519Scalar) Equal(other Scalar) bool {
	o, ok := other.(*Ed25519Scalar)
	return ok && s.s.Equal(o.s) == 1
}
