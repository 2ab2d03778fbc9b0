package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/smallyu/go-sss/internal/codec"
	"github.com/smallyu/go-sss/internal/crypto/commitment"
	"github.com/smallyu/go-sss/pkg/sss"
)

// Bundle is the exported form of a split: enough to select and combine
// later, without the original secret. Fingerprint lets a later combine check
// the recovered secret.
type Bundle struct {
	Session     string       `json:"session,omitempty"`
	Curve       sss.Curve    `json:"curve"`
	Params      sss.Params   `json:"params"`
	Shape       string       `json:"shape,omitempty"`
	Identifiers []string     `json:"identifiers"`
	Shares      []sss.Share  `json:"shares"`
	Fingerprint *Fingerprint `json:"fingerprint,omitempty"`
}

// Fingerprint is a salted commitment to the curve and secret, hex encoded.
type Fingerprint struct {
	Commitment string `json:"commitment"`
	Salt       string `json:"salt"`
}

func newFingerprint(c *commitment.Commitment) *Fingerprint {
	if c == nil {
		return nil
	}
	return &Fingerprint{Commitment: codec.BytesToHex(c.C), Salt: codec.BytesToHex(c.D)}
}

func (f *Fingerprint) decode() (*commitment.Commitment, error) {
	if f == nil {
		return nil, nil
	}
	c, err := codec.HexToBytes(f.Commitment)
	if err != nil {
		return nil, err
	}
	d, err := codec.HexToBytes(f.Salt)
	if err != nil {
		return nil, err
	}
	if len(c) != commitment.Size || len(d) != commitment.Size {
		return nil, fmt.Errorf("%w: fingerprint fields must be %d bytes", sss.ErrMalformedHex, commitment.Size)
	}
	return &commitment.Commitment{C: c, D: d}, nil
}

// Validate checks internal consistency of b.
func (b *Bundle) Validate() error {
	if !b.Curve.Valid() {
		return fmt.Errorf("%w: %q", sss.ErrUnknownCurve, b.Curve)
	}
	if err := b.Params.Validate(); err != nil {
		return err
	}
	if len(b.Shares) != b.Params.Total {
		return fmt.Errorf("%w: bundle has %d shares, params say %d", sss.ErrMalformedBackendOutput, len(b.Shares), b.Params.Total)
	}
	if len(b.Identifiers) != 0 && len(b.Identifiers) != len(b.Shares) {
		return fmt.Errorf("%w: %d identifiers for %d shares", sss.ErrMalformedBackendOutput, len(b.Identifiers), len(b.Shares))
	}
	for _, id := range b.Identifiers {
		if _, err := codec.HexToBytes(id); err != nil {
			return err
		}
	}
	if _, err := b.Fingerprint.decode(); err != nil {
		return err
	}
	return nil
}

// MarshalBundle encodes b as indented JSON.
func MarshalBundle(b *Bundle) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// UnmarshalBundle decodes and validates a bundle.
func UnmarshalBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bundle: %w", err)
	}
	return &b, nil
}
