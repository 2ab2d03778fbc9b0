package curves

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-sss/pkg/sss"
)

type Secp256k1 struct{}

// NewSecp256k1 returns the secp256k1 scalar field.
func NewSecp256k1() Curve {
	return &Secp256k1{}
}

func (c *Secp256k1) Name() sss.Curve {
	return sss.Secp256k1
}

func (c *Secp256k1) Order() *big.Int {
	return new(big.Int).Set(secp256k1.S256().Params().N)
}

func (c *Secp256k1) NewScalar(r io.Reader) (Scalar, error) {
	// Generate random integer in [0, N-1]
	k, err := rand.Int(r, secp256k1.S256().Params().N)
	if err != nil {
		return nil, err
	}
	var buf [32]byte
	k.FillBytes(buf[:])
	s := &Secp256k1Scalar{}
	s.s.SetBytes(&buf)
	return s, nil
}

// NewScalarFromBytes reduces b modulo the group order.
func (c *Secp256k1) NewScalarFromBytes(b []byte) (Scalar, error) {
	if err := checkLen(b); err != nil {
		return nil, err
	}
	s := &Secp256k1Scalar{}
	s.s.SetByteSlice(b)
	return s, nil
}

func (c *Secp256k1) NewScalarFromInt(n int64) Scalar {
	v := new(big.Int).Mod(big.NewInt(n), secp256k1.S256().Params().N)
	var buf [32]byte
	v.FillBytes(buf[:])
	s := &Secp256k1Scalar{}
	s.s.SetBytes(&buf)
	return s
}

// Secp256k1Scalar implements Scalar over secp256k1.ModNScalar.
type Secp256k1Scalar struct {
	s secp256k1.ModNScalar
}

func (s *Secp256k1Scalar) Bytes() []byte {
	b := s.s.Bytes()
	return b[:]
}

func (s *Secp256k1Scalar) BigInt() *big.Int {
	return new(big.Int).SetBytes(s.Bytes())
}

func (s *Secp256k1Scalar) Add(other Scalar) Scalar {
	o := other.(*Secp256k1Scalar)
	res := &Secp256k1Scalar{}
	res.s.Add2(&s.s, &o.s)
	return res
}

func (s *Secp256k1Scalar) Sub(other Scalar) Scalar {
	o := other.(*Secp256k1Scalar)
	res := &Secp256k1Scalar{}
	res.s.NegateVal(&o.s).Add(&s.s)
	return res
}

func (s *Secp256k1Scalar) Mul(other Scalar) Scalar {
	o := other.(*Secp256k1Scalar)
	res := &Secp256k1Scalar{}
	res.s.Mul2(&s.s, &o.s)
	return res
}

func (s *Secp256k1Scalar) Invert() Scalar {
	res := &Secp256k1Scalar{}
	res.s.InverseValNonConst(&s.s)
	return res
}

func (s *Secp256k1Scalar) IsZero() bool {
	return s.s.IsZero()
}

func (s *Secp256k1Scalar) Equal(other Scalar) bool {
	o, ok := other.(*Secp256k1Scalar)
	return ok && s.s.Equals(&o.s)
}
