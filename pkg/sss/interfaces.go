package sss

import (
	"fmt"
	"strings"
)

// MaxShares caps the number of shares issued by one split. It is a usability
// limit, not a cryptographic one.
const MaxShares = 32

// ScalarSize is the fixed width of secrets, identifiers and recovered values.
const ScalarSize = 32

// Curve identifies the scalar field a split operates over.
type Curve string

const (
	Secp256k1 Curve = "secp256k1"
	Secp256r1 Curve = "secp256r1"
	Ed25519   Curve = "ed25519"
)

// Curves returns every supported curve in a stable order.
func Curves() []Curve {
	return []Curve{Secp256k1, Secp256r1, Ed25519}
}

// ParseCurve resolves a curve name or one of its common aliases.
func ParseCurve(name string) (Curve, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "secp256k1", "k256":
		return Secp256k1, nil
	case "secp256r1", "p256", "p-256", "prime256v1":
		return Secp256r1, nil
	case "ed25519", "edwards25519":
		return Ed25519, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
}

// Valid reports whether c is one of the supported curves.
func (c Curve) Valid() bool {
	switch c {
	case Secp256k1, Secp256r1, Ed25519:
		return true
	}
	return false
}

// IsWeierstrass reports whether c is served by the generic entry points.
func (c Curve) IsWeierstrass() bool {
	return c == Secp256k1 || c == Secp256r1
}

// ShortCode returns the compact curve discriminator newer backends accept.
func (c Curve) ShortCode() string {
	switch c {
	case Secp256r1:
		return "p256"
	default:
		return string(c)
	}
}

// String returns the raw curve identifier.
func (c Curve) String() string {
	return string(c)
}

// Params holds the share counts for one split.
type Params struct {
	Total     int `json:"total"`     // n
	Threshold int `json:"threshold"` // t
}

// Validate enforces 2 <= t <= n <= MaxShares.
func (p Params) Validate() error {
	if p.Threshold < 2 {
		return fmt.Errorf("%w: threshold must be at least 2, got %d", ErrInvalidThreshold, p.Threshold)
	}
	if p.Total < p.Threshold {
		return fmt.Errorf("%w: total shares (%d) must be >= threshold (%d)", ErrInvalidThreshold, p.Total, p.Threshold)
	}
	if p.Total > MaxShares {
		return fmt.Errorf("%w: total shares cannot exceed %d, got %d", ErrInvalidThreshold, MaxShares, p.Total)
	}
	return nil
}

// Backend is the split/combine collaborator. Initialize must succeed before
// any other entry point is used.
//
// The remaining entry points are optional and differ across backend
// versions; a backend exposes them by also implementing GenericBackend
// and/or EdwardsBackend.
type Backend interface {
	Initialize() error
}

// GenericBackend is the curve-parameterised surface.
// An empty curve argument means the argument is omitted, which older
// backends interpret as their legacy default curve.
type GenericBackend interface {
	SplitGeneric(secret []byte, identifiers [][]byte, threshold int, curve string) ([]Share, error)
	CombineGeneric(shares []Share, threshold int, curve string) ([]byte, error)
}

// EdwardsBackend is the dedicated ed25519 surface of newer backends.
type EdwardsBackend interface {
	SplitEdwards(secret []byte, identifiers [][]byte, threshold int) ([]Share, error)
	CombineEdwards(shares []Share, threshold int) ([]byte, error)
}
