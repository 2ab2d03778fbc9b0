package curves

import (
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/smallyu/go-sss/pkg/sss"
)

// P256 is the secp256r1 (NIST P-256) scalar field.
type P256 struct{}

// NewP256 returns the secp256r1 scalar field.
func NewP256() Curve {
	return &P256{}
}

func p256Order() *big.Int {
	return elliptic.P256().Params().N
}

func (c *P256) Name() sss.Curve {
	return sss.Secp256r1
}

func (c *P256) Order() *big.Int {
	return new(big.Int).Set(p256Order())
}

func (c *P256) NewScalar(r io.Reader) (Scalar, error) {
	k, err := rand.Int(r, p256Order())
	if err != nil {
		return nil, err
	}
	return &P256Scalar{v: k}, nil
}

// NewScalarFromBytes reduces b modulo the group order.
func (c *P256) NewScalarFromBytes(b []byte) (Scalar, error) {
	if err := checkLen(b); err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(b)
	return &P256Scalar{v: v.Mod(v, p256Order())}, nil
}

func (c *P256) NewScalarFromInt(n int64) Scalar {
	return &P256Scalar{v: new(big.Int).Mod(big.NewInt(n), p256Order())}
}

// P256Scalar implements Scalar with math/big modulo the P-256 order.
type P256Scalar struct {
	v *big.Int
}

func (s *P256Scalar) Bytes() []byte {
	return s.v.FillBytes(make([]byte, sss.ScalarSize))
}

func (s *P256Scalar) BigInt() *big.Int {
	return new(big.Int).Set(s.v)
}

func (s *P256Scalar) Add(other Scalar) Scalar {
	o := other.(*P256Scalar)
	v := new(big.Int).Add(s.v, o.v)
	return &P256Scalar{v: v.Mod(v, p256Order())}
}

func (s *P256Scalar) Sub(other Scalar) Scalar {
	o := other.(*P256Scalar)
	v := new(big.Int).Sub(s.v, o.v)
	return &P256Scalar{v: v.Mod(v, p256Order())}
}

func (s *P256Scalar) Mul(other Scalar) Scalar {
	o := other.(*P256Scalar)
	v := new(big.Int).Mul(s.v, o.v)
	return &P256Scalar{v: v.Mod(v, p256Order())}
}

func (s *P256Scalar) Invert() Scalar {
	if s.v.Sign() == 0 {
		return &P256Scalar{v: new(big.Int)}
	}
	return &P256Scalar{v: new(big.Int).ModInverse(s.v, p256Order())}
}

func (s *P256Scalar) IsZero() bool {
	return s.v.Sign() == 0
}

func (s *P256Scalar) Equal(other Scalar) bool {
	o, ok := other.(*P256Scalar)
	return ok && s.v.Cmp(o.v) == 0
}
