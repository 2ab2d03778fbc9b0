package curves

import (
	"math/big"

	"github.com/smallyu/go-sss/pkg/sss"
)

// Ordering is the result of comparing a value against the group order.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "unknown"
	}
}

// ed25519 group order l, big-endian.
var ed25519OrderBE = [32]byte{
	0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x14, 0xde, 0xf9, 0xde, 0xa2, 0xf7, 0x9c, 0xd6, 0x58, 0x12, 0x63, 0x1a, 0x5c, 0xf5, 0xd3, 0xed,
}

// Little-endian mirror of ed25519OrderBE.
var ed25519OrderLE = [32]byte{
	0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58, 0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
}

// Ed25519OrderBE returns l as 32 big-endian bytes.
func Ed25519OrderBE() [32]byte { return ed25519OrderBE }

// Ed25519OrderLE returns l as 32 little-endian bytes.
func Ed25519OrderLE() [32]byte { return ed25519OrderLE }

// CompareToOrder compares a 32-byte big-endian value against l. The first
// differing byte, starting from the most significant, decides the result.
// Any other length compares Greater.
func CompareToOrder(b []byte) Ordering {
	if len(b) != len(ed25519OrderBE) {
		return Greater
	}
	for i := 0; i < len(ed25519OrderBE); i++ {
		if b[i] != ed25519OrderBE[i] {
			if b[i] < ed25519OrderBE[i] {
				return Less
			}
			return Greater
		}
	}
	return Equal
}

// CompareToOrderLE is CompareToOrder for a 32-byte little-endian value, such
// as the edwards25519 canonical encoding.
func CompareToOrderLE(b []byte) Ordering {
	if len(b) != len(ed25519OrderLE) {
		return Greater
	}
	for i := len(ed25519OrderLE) - 1; i >= 0; i-- {
		if b[i] != ed25519OrderLE[i] {
			if b[i] < ed25519OrderLE[i] {
				return Less
			}
			return Greater
		}
	}
	return Equal
}

// IsValidScalar reports whether b may be used as a scalar on curve.
//
// secp256k1 and secp256r1 accept any 32-byte value; the backend reduces it.
// ed25519 requires b, read big-endian, to be strictly below l.
func IsValidScalar(curve sss.Curve, b []byte) bool {
	if len(b) != sss.ScalarSize {
		return false
	}
	switch curve {
	case sss.Secp256k1, sss.Secp256r1:
		return true
	case sss.Ed25519:
		return CompareToOrder(b) == Less
	default:
		return false
	}
}

// BelowOrder reports whether b, read as a 32-byte big-endian value, is
// strictly below the group order of c. Unlike IsValidScalar it also bounds
// the Weierstrass fields, whose NewScalarFromBytes reduces modulo n.
func BelowOrder(c Curve, b []byte) bool {
	if len(b) != sss.ScalarSize {
		return false
	}
	if c.Name() == sss.Ed25519 {
		return CompareToOrder(b) == Less
	}
	return new(big.Int).SetBytes(b).Cmp(c.Order()) < 0
}
