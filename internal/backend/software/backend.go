// Package software is an in-process split/combine backend. It emulates the
// three generations of backend surface the adapter negotiates with, and does
// the field arithmetic with internal/crypto/shamir.
package software

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/smallyu/go-sss/internal/crypto/curves"
	"github.com/smallyu/go-sss/internal/crypto/shamir"
	"github.com/smallyu/go-sss/internal/logging"
	"github.com/smallyu/go-sss/pkg/sss"
)

var (
	ErrCurveArgument  = errors.New("curve argument not accepted by this backend version")
	ErrMalformedShare = errors.New("malformed share")
)

type Option func(*core)

// WithRand sets the source of polynomial coefficients. Defaults to crypto/rand.
func WithRand(r io.Reader) Option {
	return func(c *core) {
		if r != nil {
			c.rand = r
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *core) { c.logger = logging.OrDiscard(l) }
}

// New returns a backend exposing the entry points of version v.
func New(v Version, opts ...Option) sss.Backend {
	c := &core{
		version: v,
		rand:    rand.Reader,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("backend_version", v.String())

	switch v {
	case VersionLegacy:
		return &legacyBackend{c}
	case VersionNamed:
		return &namedBackend{c}
	default:
		return &currentBackend{c}
	}
}

type core struct {
	version     Version
	rand        io.Reader
	logger      logging.Logger
	initialized bool
}

func (c *core) Initialize() error {
	c.initialized = true
	c.logger.Debug("backend ready")
	return nil
}

// shareCodec encodes one (id, value) pair in the version's share shape.
type shareCodec func(id, value []byte) sss.Share

func sequenceShare(id, value []byte) sss.Share {
	return sss.Sequence(sss.Bytes(id), sss.Bytes(value))
}

func xyShare(id, value []byte) sss.Share {
	return sss.Labeled(sss.F("x", sss.Bytes(id)), sss.F("y", sss.Bytes(value)))
}

func idValueShare(id, value []byte) sss.Share {
	return sss.Labeled(sss.F("id", sss.Bytes(id)), sss.F("value", sss.Bytes(value)))
}

func (c *core) split(curveID sss.Curve, secret []byte, ids [][]byte, threshold int, encode shareCodec) ([]sss.Share, error) {
	if !c.initialized {
		return nil, sss.ErrBackendNotInitialized
	}
	if len(secret) != sss.ScalarSize {
		return nil, fmt.Errorf("%w: got %d bytes", sss.ErrInvalidSecretLength, len(secret))
	}
	if threshold < 2 || threshold > len(ids) {
		return nil, fmt.Errorf("%w: threshold %d with %d identifiers", sss.ErrInvalidThreshold, threshold, len(ids))
	}

	curve, err := curves.ForCurve(curveID)
	if err != nil {
		return nil, err
	}
	// Reducing the secret would make it unrecoverable.
	if !curves.BelowOrder(curve, secret) {
		return nil, fmt.Errorf("%w: secret is not below the %s group order", sss.ErrScalarOutOfRange, curveID)
	}
	s, err := curve.NewScalarFromBytes(secret)
	if err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	xs := make([]curves.Scalar, len(ids))
	for i, id := range ids {
		if xs[i], err = curve.NewScalarFromBytes(id); err != nil {
			return nil, fmt.Errorf("identifier %d: %w", i, err)
		}
	}

	ys, err := shamir.Split(curve, s, xs, threshold, c.rand)
	if err != nil {
		return nil, err
	}

	shares := make([]sss.Share, len(ids))
	for i := range ids {
		shares[i] = encode(ids[i], ys[i].Bytes())
	}
	c.logger.Debug("split", "curve", curveID, "shares", len(shares), "threshold", threshold, logging.Redacted("secret"))
	return shares, nil
}

func (c *core) combine(curveID sss.Curve, shares []sss.Share, threshold int) ([]byte, error) {
	if !c.initialized {
		return nil, sss.ErrBackendNotInitialized
	}
	if threshold < 1 {
		return nil, fmt.Errorf("%w: threshold %d", sss.ErrInvalidThreshold, threshold)
	}
	if len(shares) < threshold {
		return nil, fmt.Errorf("%w: have %d, need %d", sss.ErrInsufficientShares, len(shares), threshold)
	}

	curve, err := curves.ForCurve(curveID)
	if err != nil {
		return nil, err
	}
	xs := make([]curves.Scalar, len(shares))
	ys := make([]curves.Scalar, len(shares))
	for i, share := range shares {
		id, value, err := decodeShare(share)
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}
		if xs[i], err = curve.NewScalarFromBytes(id); err != nil {
			return nil, fmt.Errorf("share %d identifier: %w", i, err)
		}
		if ys[i], err = curve.NewScalarFromBytes(value); err != nil {
			return nil, fmt.Errorf("share %d value: %w", i, err)
		}
	}

	secret, err := shamir.Combine(curve, xs, ys)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("combine", "curve", curveID, "shares", len(shares), logging.Redacted("secret"))
	return secret.Bytes(), nil
}

// decodeShare accepts every share shape any version produces.
func decodeShare(s sss.Share) (id, value []byte, err error) {
	switch s.Kind() {
	case sss.KindSequence:
		items := s.Items()
		if len(items) != 2 {
			return nil, nil, fmt.Errorf("%w: sequence of %d items", ErrMalformedShare, len(items))
		}
		id, ok1 := items[0].Raw()
		value, ok2 := items[1].Raw()
		if !ok1 || !ok2 {
			return nil, nil, fmt.Errorf("%w: sequence items must be bytes", ErrMalformedShare)
		}
		return id, value, nil
	case sss.KindLabeled:
		for _, labels := range [][2]string{{"id", "value"}, {"x", "y"}} {
			idField, ok1 := s.Field(labels[0])
			valueField, ok2 := s.Field(labels[1])
			if !ok1 || !ok2 {
				continue
			}
			id, ok1 := idField.Raw()
			value, ok2 := valueField.Raw()
			if !ok1 || !ok2 {
				return nil, nil, fmt.Errorf("%w: fields %s/%s must be bytes", ErrMalformedShare, labels[0], labels[1])
			}
			return id, value, nil
		}
		return nil, nil, fmt.Errorf("%w: no id/value or x/y fields", ErrMalformedShare)
	default:
		return nil, nil, fmt.Errorf("%w: bare %s share", ErrMalformedShare, s.Kind())
	}
}

// legacyBackend is the oldest surface: no curve argument, secp256k1 only.
type legacyBackend struct{ *core }

func (b *legacyBackend) curve(arg string) (sss.Curve, error) {
	if arg != "" {
		return "", fmt.Errorf("%w: %q", ErrCurveArgument, arg)
	}
	return sss.Secp256k1, nil
}

func (b *legacyBackend) SplitGeneric(secret []byte, ids [][]byte, threshold int, curve string) ([]sss.Share, error) {
	c, err := b.curve(curve)
	if err != nil {
		return nil, err
	}
	return b.split(c, secret, ids, threshold, sequenceShare)
}

func (b *legacyBackend) CombineGeneric(shares []sss.Share, threshold int, curve string) ([]byte, error) {
	c, err := b.curve(curve)
	if err != nil {
		return nil, err
	}
	return b.combine(c, shares, threshold)
}

// namedBackend requires the raw curve identifier.
type namedBackend struct{ *core }

func (b *namedBackend) curve(arg string) (sss.Curve, error) {
	switch c := sss.Curve(arg); c {
	case sss.Secp256k1, sss.Secp256r1:
		return c, nil
	case sss.Ed25519:
		return "", fmt.Errorf("%w: %s", sss.ErrUnsupportedCurve, arg)
	default:
		return "", fmt.Errorf("%w: %q", ErrCurveArgument, arg)
	}
}

func (b *namedBackend) SplitGeneric(secret []byte, ids [][]byte, threshold int, curve string) ([]sss.Share, error) {
	c, err := b.curve(curve)
	if err != nil {
		return nil, err
	}
	return b.split(c, secret, ids, threshold, xyShare)
}

func (b *namedBackend) CombineGeneric(shares []sss.Share, threshold int, curve string) ([]byte, error) {
	c, err := b.curve(curve)
	if err != nil {
		return nil, err
	}
	return b.combine(c, shares, threshold)
}

// currentBackend accepts short codes and raw names, and serves ed25519
// through dedicated entry points only.
type currentBackend struct{ *core }

func (b *currentBackend) curve(arg string) (sss.Curve, error) {
	switch arg {
	case "", "secp256k1":
		return sss.Secp256k1, nil
	case "p256", "secp256r1":
		return sss.Secp256r1, nil
	case "ed25519":
		return "", fmt.Errorf("%w: use the edwards entry points for %s", sss.ErrUnsupportedCurve, arg)
	default:
		return "", fmt.Errorf("%w: %q", ErrCurveArgument, arg)
	}
}

func (b *currentBackend) SplitGeneric(secret []byte, ids [][]byte, threshold int, curve string) ([]sss.Share, error) {
	c, err := b.curve(curve)
	if err != nil {
		return nil, err
	}
	return b.split(c, secret, ids, threshold, idValueShare)
}

func (b *currentBackend) CombineGeneric(shares []sss.Share, threshold int, curve string) ([]byte, error) {
	c, err := b.curve(curve)
	if err != nil {
		return nil, err
	}
	return b.combine(c, shares, threshold)
}

func (b *currentBackend) SplitEdwards(secret []byte, ids [][]byte, threshold int) ([]sss.Share, error) {
	return b.split(sss.Ed25519, secret, ids, threshold, idValueShare)
}

func (b *currentBackend) CombineEdwards(shares []sss.Share, threshold int) ([]byte, error) {
	return b.combine(sss.Ed25519, shares, threshold)
}
