// Package points draws the random x-coordinates (identifiers) used to split a
// secret, and random curve-valid secrets.
package points

import (
	"fmt"
	"time"

	"github.com/smallyu/go-sss/internal/crypto/curves"
	"github.com/smallyu/go-sss/internal/logging"
	"github.com/smallyu/go-sss/internal/metrics"
	"github.com/smallyu/go-sss/pkg/sss"
)

// DefaultMaxDraws bounds the number of raw draws one call may consume.
const DefaultMaxDraws = 10000

// Generator produces curve-valid 32-byte values by rejection sampling. Values
// are never reduced modulo the curve order.
type Generator struct {
	src      *Source
	maxDraws int
	logger   logging.Logger
	recorder *metrics.Recorder
}

type Option func(*Generator)

// WithMaxDraws overrides DefaultMaxDraws. Values below one are ignored.
func WithMaxDraws(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxDraws = n
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(g *Generator) { g.logger = logging.OrDiscard(l) }
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// NewGenerator creates a Generator reading from src. A nil src uses
// DefaultSource.
func NewGenerator(src *Source, opts ...Option) *Generator {
	if src == nil {
		src = DefaultSource()
	}
	g := &Generator{
		src:      src,
		maxDraws: DefaultMaxDraws,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Source returns the randomness context the generator draws from.
func (g *Generator) Source() *Source {
	return g.src
}

// Draw returns one curve-valid value.
func (g *Generator) Draw(curve sss.Curve) ([]byte, error) {
	return g.drawUntil(curve, func(b []byte) bool { return curves.IsValidScalar(curve, b) })
}

// RandomSecret returns a random secret strictly below the group order of
// curve, so a split never reduces it.
func (g *Generator) RandomSecret(curve sss.Curve) ([]byte, error) {
	field, err := curves.ForCurve(curve)
	if err != nil {
		return nil, err
	}
	return g.drawUntil(curve, func(b []byte) bool { return curves.BelowOrder(field, b) })
}

func (g *Generator) drawUntil(curve sss.Curve, accept func([]byte) bool) ([]byte, error) {
	if !curve.Valid() {
		return nil, fmt.Errorf("%w: %q", sss.ErrUnknownCurve, curve)
	}
	for draws := 0; draws < g.maxDraws; draws++ {
		b, err := g.read()
		if err != nil {
			return nil, err
		}
		if accept(b) {
			return b, nil
		}
		g.recorder.RecordRejectedDraw(string(curve), metrics.ReasonOutOfRange)
	}
	return nil, fmt.Errorf("%w: no valid value after %d draws", sss.ErrRandomnessExhausted, g.maxDraws)
}

// Generate returns n pairwise-distinct curve-valid values. The draw budget is
// shared by the whole call.
func (g *Generator) Generate(n int, curve sss.Curve) (out [][]byte, err error) {
	start := time.Now()
	defer func() {
		g.recorder.RecordOperation(metrics.OpGenerate, string(curve), err, time.Since(start))
	}()

	if n < 0 {
		return nil, fmt.Errorf("negative identifier count %d", n)
	}
	if !curve.Valid() {
		return nil, fmt.Errorf("%w: %q", sss.ErrUnknownCurve, curve)
	}

	out = make([][]byte, 0, n)
	seen := make(map[string]struct{}, n)
	draws, rejected := 0, 0
	for len(out) < n {
		if draws >= g.maxDraws {
			g.logger.Warn("identifier generation exhausted",
				"curve", curve, "wanted", n, "got", len(out), "draws", draws)
			return nil, fmt.Errorf("%w: %d of %d identifiers after %d draws",
				sss.ErrRandomnessExhausted, len(out), n, draws)
		}
		draws++

		b, err := g.read()
		if err != nil {
			return nil, err
		}
		if !curves.IsValidScalar(curve, b) {
			rejected++
			g.recorder.RecordRejectedDraw(string(curve), metrics.ReasonOutOfRange)
			continue
		}
		if _, dup := seen[string(b)]; dup {
			rejected++
			g.recorder.RecordRejectedDraw(string(curve), metrics.ReasonCollision)
			continue
		}
		seen[string(b)] = struct{}{}
		out = append(out, b)
	}

	g.logger.Debug("identifiers generated", "curve", curve, "count", n, "rejected", rejected)
	return out, nil
}

func (g *Generator) read() ([]byte, error) {
	b := make([]byte, sss.ScalarSize)
	if _, err := g.src.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
