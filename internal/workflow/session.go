// Package workflow drives one split/combine workflow: validate the input,
// draw identifiers, split through the backend adapter, select shares and
// combine them back.
package workflow

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/smallyu/go-sss/internal/backend"
	"github.com/smallyu/go-sss/internal/codec"
	"github.com/smallyu/go-sss/internal/crypto/commitment"
	"github.com/smallyu/go-sss/internal/crypto/curves"
	"github.com/smallyu/go-sss/internal/logging"
	"github.com/smallyu/go-sss/internal/metrics"
	"github.com/smallyu/go-sss/internal/points"
	"github.com/smallyu/go-sss/pkg/sss"
)

const (
	StepValidate = "validate"
	StepSplit    = "split"
	StepSelect   = "select"
	StepCombine  = "combine"
	StepLoad     = "load"
)

// Backend is the split/combine surface a Session drives. *backend.Adapter
// implements it.
type Backend interface {
	Split(curve sss.Curve, secret []byte, ids [][]byte, threshold int) ([]sss.Share, backend.Shape, error)
	Combine(curve sss.Curve, shares []sss.Share, threshold int) ([]byte, backend.Shape, error)
}

// IdentifierSource draws share identifiers. *points.Generator implements it.
type IdentifierSource interface {
	Generate(n int, curve sss.Curve) ([][]byte, error)
}

// Input is what the user supplies before a split.
type Input struct {
	// Secret is decoded according to Encoding.
	Secret   string
	Encoding codec.Encoding
	// SecretBytes, when non-nil, is used verbatim instead of Secret.
	SecretBytes []byte
	Curve       sss.Curve
	Params      sss.Params
}

// Recovery is the outcome of Combine.
type Recovery struct {
	Secret []byte
	Hex    string
	Text   string
	// Matches is true when Verified and the recovered bytes equal the
	// original secret, or match the bundle fingerprint after Load.
	Matches bool
	// Verified is false when there was nothing to compare against: no
	// original secret and no fingerprint.
	Verified bool
	Shape    backend.Shape
}

// Details summarises a session without exposing secret material.
type Details struct {
	ID        string
	Phase     Phase
	Curve     sss.Curve
	Params    sss.Params
	Shape     backend.Shape
	Selection []int
}

// Session holds the state of one workflow. It is not safe for concurrent use.
type Session struct {
	id       uuid.UUID
	backend  Backend
	ids      IdentifierSource
	logger   logging.Logger
	recorder *metrics.Recorder
	rand     io.Reader

	phase  Phase
	input  Input
	secret []byte
	curve  sss.Curve
	params sss.Params

	identifiers [][]byte
	shares      []sss.Share
	shape       backend.Shape
	fingerprint *commitment.Commitment
	selection   []int
	recovery    *Recovery
}

type Option func(*Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.logger = logging.OrDiscard(l) }
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithRand sets the source of fingerprint salts. Defaults to crypto/rand.
func WithRand(r io.Reader) Option {
	return func(s *Session) { s.rand = r }
}

// New creates an idle session. A nil ids uses a points.Generator over
// crypto/rand.
func New(b Backend, ids IdentifierSource, opts ...Option) *Session {
	if ids == nil {
		ids = points.NewGenerator(nil)
	}
	s := &Session{
		id:      uuid.New(),
		backend: b,
		ids:     ids,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id.String())
	return s
}

// ID returns the session's correlation id.
func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) Phase() Phase {
	return s.phase
}

// Configure replaces the input and returns the session to Idle.
func (s *Session) Configure(in Input) {
	s.clear()
	s.input = in
	if in.SecretBytes != nil {
		s.input.SecretBytes = append([]byte(nil), in.SecretBytes...)
	}
	s.logger.Debug("configured", "curve", in.Curve, "total", in.Params.Total, "threshold", in.Params.Threshold)
}

// Reset discards everything, including the input.
func (s *Session) Reset() {
	s.clear()
	s.input = Input{}
}

func (s *Session) clear() {
	s.phase = PhaseIdle
	s.secret = nil
	s.curve = ""
	s.params = sss.Params{}
	s.identifiers = nil
	s.shares = nil
	s.shape = backend.ShapeNone
	s.fingerprint = nil
	s.selection = nil
	s.recovery = nil
}

// discardShares drops the output of any previous split, keeping the
// validated secret.
func (s *Session) discardShares() {
	s.identifiers = nil
	s.shares = nil
	s.shape = backend.ShapeNone
	s.fingerprint = nil
	s.selection = nil
	s.recovery = nil
	s.phase = PhaseValidated
}

func (s *Session) fail(step string, err error) error {
	s.logger.Warn("step failed", "step", step, "phase", s.phase, "error", err)
	return sss.NewStepError(step, s.phase.String(), err)
}

// Validate decodes and checks the configured input. Nothing reaches the
// backend until this succeeds.
func (s *Session) Validate() (err error) {
	start := time.Now()
	defer func() {
		s.recorder.RecordOperation(metrics.OpValidate, string(s.input.Curve), err, time.Since(start))
	}()

	if s.phase != PhaseIdle && s.phase != PhaseValidated {
		return s.fail(StepValidate, fmt.Errorf("%w: configure a new input first", sss.ErrInvalidState))
	}

	secret := s.input.SecretBytes
	if secret == nil {
		secret, err = codec.DecodeSecret(s.input.Secret, s.input.Encoding)
		if err != nil {
			return s.fail(StepValidate, err)
		}
	}
	if len(secret) != sss.ScalarSize {
		return s.fail(StepValidate, fmt.Errorf("%w: got %d bytes", sss.ErrInvalidSecretLength, len(secret)))
	}
	if !s.input.Curve.Valid() {
		return s.fail(StepValidate, fmt.Errorf("%w: %q", sss.ErrUnknownCurve, s.input.Curve))
	}
	if err := s.input.Params.Validate(); err != nil {
		return s.fail(StepValidate, err)
	}
	if !curves.IsValidScalar(s.input.Curve, secret) {
		return s.fail(StepValidate, fmt.Errorf("%w: secret is not below the %s group order", sss.ErrScalarOutOfRange, s.input.Curve))
	}

	s.secret = append([]byte(nil), secret...)
	s.curve = s.input.Curve
	s.params = s.input.Params
	s.phase = PhaseValidated
	s.logger.Debug("input validated", "curve", s.curve, logging.Redacted("secret"))
	return nil
}

// Split draws n identifiers and splits the validated secret. Calling it again
// re-splits with fresh identifiers. Previous shares are discarded before the
// new split starts, so a failed re-split leaves the session in Validated.
func (s *Session) Split() error {
	if s.phase == PhaseIdle {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	if s.secret == nil {
		return s.fail(StepSplit, fmt.Errorf("%w: no secret to split", sss.ErrInvalidState))
	}
	s.discardShares()

	ids, err := s.ids.Generate(s.params.Total, s.curve)
	if err != nil {
		return s.fail(StepSplit, err)
	}

	shares, shape, err := s.backend.Split(s.curve, s.secret, ids, s.params.Threshold)
	if err != nil {
		return s.fail(StepSplit, err)
	}
	if len(shares) != s.params.Total {
		return s.fail(StepSplit, fmt.Errorf("%w: backend returned %d shares, expected %d",
			sss.ErrMalformedBackendOutput, len(shares), s.params.Total))
	}
	fp, err := commitment.New(s.rand, []byte(s.curve), s.secret)
	if err != nil {
		return s.fail(StepSplit, fmt.Errorf("%w: %v", sss.ErrSecureRandomUnavailable, err))
	}

	s.identifiers = ids
	s.shares = shares
	s.shape = shape
	s.fingerprint = fp
	s.phase = PhaseSplit
	s.logger.Info("secret split", "curve", s.curve, "total", s.params.Total,
		"threshold", s.params.Threshold, "shape", shape)
	return nil
}

// Select chooses shares by 1-based index.
func (s *Session) Select(indices ...int) error {
	if !s.phase.hasShares() {
		return s.fail(StepSelect, fmt.Errorf("%w: no shares to select from", sss.ErrInvalidState))
	}
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 1 || i > len(s.shares) {
			return s.fail(StepSelect, fmt.Errorf("%w: index %d outside 1..%d", sss.ErrInvalidSelection, i, len(s.shares)))
		}
		if seen[i] {
			return s.fail(StepSelect, fmt.Errorf("%w: index %d selected twice", sss.ErrInvalidSelection, i))
		}
		seen[i] = true
	}
	s.selection = append([]int(nil), indices...)
	s.recovery = nil
	s.phase = PhaseSelecting
	return nil
}

// Combine recovers the secret from the selected shares. The share count is
// checked against the threshold before the backend is called.
func (s *Session) Combine() (*Recovery, error) {
	if s.phase != PhaseSelecting && s.phase != PhaseCombined {
		return nil, s.fail(StepCombine, fmt.Errorf("%w: select shares first", sss.ErrInvalidState))
	}
	if len(s.selection) < s.params.Threshold {
		return nil, s.fail(StepCombine, fmt.Errorf("%w: selected %d, need %d",
			sss.ErrInsufficientShares, len(s.selection), s.params.Threshold))
	}

	selected := make([]sss.Share, len(s.selection))
	for i, idx := range s.selection {
		selected[i] = s.shares[idx-1]
	}

	recovered, shape, err := s.backend.Combine(s.curve, selected, s.params.Threshold)
	if err != nil {
		return nil, s.fail(StepCombine, err)
	}
	if len(recovered) != sss.ScalarSize {
		return nil, s.fail(StepCombine, fmt.Errorf("%w: recovered %d bytes", sss.ErrMalformedBackendOutput, len(recovered)))
	}

	r := &Recovery{
		Secret: append([]byte(nil), recovered...),
		Hex:    codec.BytesToHex(recovered),
		Text:   codec.BytesToDisplayText(recovered),
		Shape:  shape,
	}
	switch {
	case s.secret != nil:
		r.Verified = true
		r.Matches = bytes.Equal(recovered, s.secret)
	case s.fingerprint != nil:
		ok, err := s.fingerprint.Check([]byte(s.curve), recovered)
		r.Verified = err == nil
		r.Matches = ok
	}
	s.recovery = r
	s.phase = PhaseCombined

	s.logger.Info("secret combined", "curve", s.curve, "shares", len(selected),
		"shape", shape, "verified", r.Verified, "matches", r.Matches, logging.Redacted("secret"))
	return r, nil
}

// Load installs shares from a previously exported bundle. The session has no
// original secret afterwards; recoveries are checked against the bundle
// fingerprint when it has one and are unverified otherwise.
func (s *Session) Load(b *Bundle) error {
	if b == nil {
		return s.fail(StepLoad, fmt.Errorf("%w: nil bundle", sss.ErrInvalidState))
	}
	if err := b.Validate(); err != nil {
		return s.fail(StepLoad, err)
	}
	ids := make([][]byte, len(b.Identifiers))
	for i, h := range b.Identifiers {
		// Validate already checked the hex.
		ids[i], _ = codec.HexToBytes(h)
	}
	fp, _ := b.Fingerprint.decode()

	s.Reset()
	s.input = Input{Curve: b.Curve, Params: b.Params}
	s.curve = b.Curve
	s.params = b.Params
	s.identifiers = ids
	s.shares = append([]sss.Share(nil), b.Shares...)
	s.shape = backend.Shape(b.Shape)
	s.fingerprint = fp
	s.phase = PhaseSplit
	s.logger.Info("bundle loaded", "curve", b.Curve, "shares", len(b.Shares), "origin", b.Session)
	return nil
}

// Export returns the current shares as a Bundle.
func (s *Session) Export() (*Bundle, error) {
	if !s.phase.hasShares() {
		return nil, sss.NewStepError("export", s.phase.String(), fmt.Errorf("%w: nothing to export", sss.ErrInvalidState))
	}
	ids := make([]string, len(s.identifiers))
	for i, id := range s.identifiers {
		ids[i] = codec.BytesToHex(id)
	}
	return &Bundle{
		Session:     s.ID(),
		Curve:       s.curve,
		Params:      s.params,
		Shape:       string(s.shape),
		Identifiers: ids,
		Shares:      s.Shares(),
		Fingerprint: newFingerprint(s.fingerprint),
	}, nil
}

// Details returns non-secret session state.
func (s *Session) Details() Details {
	return Details{
		ID:        s.ID(),
		Phase:     s.phase,
		Curve:     s.curve,
		Params:    s.params,
		Shape:     s.shape,
		Selection: append([]int(nil), s.selection...),
	}
}

// Shares returns the shares in split order.
func (s *Session) Shares() []sss.Share {
	return append([]sss.Share(nil), s.shares...)
}

// Identifiers returns the identifiers drawn for the current split.
func (s *Session) Identifiers() [][]byte {
	out := make([][]byte, len(s.identifiers))
	for i, id := range s.identifiers {
		out[i] = append([]byte(nil), id...)
	}
	return out
}

// Recovery returns the last combine result, or nil.
func (s *Session) Recovery() *Recovery {
	return s.recovery
}

// RoundTrip configures, splits, selects and combines in one call. With no
// selection the first t shares are used.
func (s *Session) RoundTrip(in Input, selection ...int) (*Recovery, error) {
	s.Configure(in)
	if err := s.Split(); err != nil {
		return nil, err
	}
	if len(selection) == 0 {
		for i := 1; i <= s.params.Threshold; i++ {
			selection = append(selection, i)
		}
	}
	if err := s.Select(selection...); err != nil {
		return nil, err
	}
	return s.Combine()
}
