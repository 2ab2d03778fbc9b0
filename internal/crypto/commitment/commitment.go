// Package commitment implements a salted SHA-256 hash commitment.
// C = SHA256(D || len(p1) || p1 || len(p2) || p2 ...)
package commitment

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Size is the length of both the commitment and the salt.
const Size = sha256.Size

var ErrMalformed = errors.New("malformed commitment")

// Commitment represents the output of a commitment scheme.
type Commitment struct {
	C []byte // The commitment value (hash)
	D []byte // The decommitment value (salt)
}

// New commits to parts with a fresh salt read from r. A nil r uses
// crypto/rand.
func New(r io.Reader, parts ...[]byte) (*Commitment, error) {
	if r == nil {
		r = rand.Reader
	}
	salt := make([]byte, Size)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("failed to draw commitment salt: %w", err)
	}
	return &Commitment{C: digest(salt, parts), D: salt}, nil
}

// Verify checks that c commits to parts under salt d.
func Verify(c, d []byte, parts ...[]byte) bool {
	if len(c) != Size || len(d) != Size {
		return false
	}
	return subtle.ConstantTimeCompare(digest(d, parts), c) == 1
}

// Check is Verify returning ErrMalformed for wrongly sized inputs, so callers
// can tell a broken record from a mismatch.
func (c *Commitment) Check(parts ...[]byte) (bool, error) {
	if c == nil || len(c.C) != Size || len(c.D) != Size {
		return false, ErrMalformed
	}
	return Verify(c.C, c.D, parts...), nil
}

func digest(salt []byte, parts [][]byte) []byte {
	h := sha256.New()
	h.Write(salt)
	var n [4]byte
	for _, p := range parts {
		// Length prefix keeps ("ab","c") and ("a","bc") apart.
		binary.BigEndian.PutUint32(n[:], uint32(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	return h.Sum(nil)
}
