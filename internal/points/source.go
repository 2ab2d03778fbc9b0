package points

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/smallyu/go-sss/pkg/sss"
)

// Source is the randomness context handed to generators and backends. It is
// constructed explicitly so callers and tests control where entropy comes
// from.
type Source struct {
	r io.Reader
}

// NewSource wraps r after probing it once. A nil reader, or one that cannot
// fill a scalar-sized buffer, is reported as ErrSecureRandomUnavailable.
func NewSource(r io.Reader) (*Source, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no reader", sss.ErrSecureRandomUnavailable)
	}
	probe := make([]byte, sss.ScalarSize)
	if _, err := io.ReadFull(r, probe); err != nil {
		return nil, fmt.Errorf("%w: %v", sss.ErrSecureRandomUnavailable, err)
	}
	return &Source{r: r}, nil
}

// DefaultSource returns a Source over crypto/rand.
func DefaultSource() *Source {
	return &Source{r: rand.Reader}
}

// Read fills p completely or fails with ErrSecureRandomUnavailable.
func (s *Source) Read(p []byte) (int, error) {
	n, err := io.ReadFull(s.r, p)
	if err != nil {
		return n, fmt.Errorf("%w: %v", sss.ErrSecureRandomUnavailable, err)
	}
	return n, nil
}
