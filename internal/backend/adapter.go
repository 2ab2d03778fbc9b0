// Package backend negotiates with split/combine backends whose entry points
// drifted across versions.
//
// Capabilities are resolved once, when the Adapter is built, into an ordered
// table of calling shapes. Each call walks the shapes eligible for its curve
// and returns the first success. Results from failed shapes are discarded.
package backend

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/smallyu/go-sss/internal/logging"
	"github.com/smallyu/go-sss/internal/metrics"
	"github.com/smallyu/go-sss/pkg/sss"
)

// Shape names a backend calling convention.
type Shape string

const (
	ShapeNone      Shape = ""
	ShapeEdwards   Shape = "edwards"    // dedicated ed25519 entry points
	ShapeShortCode Shape = "short-code" // generic, compact curve code
	ShapeCurveName Shape = "curve-name" // generic, raw curve identifier
	ShapeLegacy    Shape = "legacy"     // generic, no curve argument
)

const (
	opSplit   = "split"
	opCombine = "combine"
)

type variant struct {
	shape Shape
	// splits reports whether the variant may serve a split on curve.
	splits   func(curve sss.Curve) bool
	combines func(curve sss.Curve) bool
	split    func(curve sss.Curve, secret []byte, ids [][]byte, t int) ([]sss.Share, error)
	combine  func(curve sss.Curve, shares []sss.Share, t int) ([]byte, error)
}

// Adapter routes split/combine calls to a Backend. Split and Combine may be
// called from several goroutines once Initialize has returned.
type Adapter struct {
	backend  sss.Backend
	table    []variant
	logger   logging.Logger
	recorder *metrics.Recorder

	initOnce sync.Once
	initErr  error
	ready    atomic.Bool
}

type Option func(*Adapter)

func WithLogger(l logging.Logger) Option {
	return func(a *Adapter) { a.logger = logging.OrDiscard(l) }
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(a *Adapter) { a.recorder = r }
}

// NewAdapter probes b for its optional entry points and builds the dispatch
// table. A nil b is accepted; Initialize will report it.
func NewAdapter(b sss.Backend, opts ...Option) *Adapter {
	a := &Adapter{
		backend: b,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.table = buildTable(b)
	a.logger.Debug("backend capabilities resolved", "shapes", a.Shapes())
	return a
}

func buildTable(b sss.Backend) []variant {
	var table []variant

	if ed, ok := b.(sss.EdwardsBackend); ok {
		table = append(table, variant{
			shape:    ShapeEdwards,
			splits:   isEd25519,
			combines: isEd25519,
			split: func(_ sss.Curve, secret []byte, ids [][]byte, t int) ([]sss.Share, error) {
				return ed.SplitEdwards(secret, ids, t)
			},
			combine: func(_ sss.Curve, shares []sss.Share, t int) ([]byte, error) {
				return ed.CombineEdwards(shares, t)
			},
		})
	}

	if gen, ok := b.(sss.GenericBackend); ok {
		generic := func(shape Shape, arg func(sss.Curve) string) variant {
			return variant{
				shape:    shape,
				splits:   sss.Curve.IsWeierstrass,
				combines: sss.Curve.Valid,
				split: func(c sss.Curve, secret []byte, ids [][]byte, t int) ([]sss.Share, error) {
					return gen.SplitGeneric(secret, ids, t, arg(c))
				},
				combine: func(c sss.Curve, shares []sss.Share, t int) ([]byte, error) {
					return gen.CombineGeneric(shares, t, arg(c))
				},
			}
		}
		table = append(table,
			generic(ShapeShortCode, sss.Curve.ShortCode),
			generic(ShapeCurveName, sss.Curve.String),
			generic(ShapeLegacy, func(sss.Curve) string { return "" }),
		)
	}

	return table
}

func isEd25519(c sss.Curve) bool {
	return c == sss.Ed25519
}

// Shapes lists the calling shapes the backend exposes, in dispatch order.
func (a *Adapter) Shapes() []Shape {
	shapes := make([]Shape, len(a.table))
	for i, v := range a.table {
		shapes[i] = v.shape
	}
	return shapes
}

// Initialize runs Backend.Initialize once. Later calls return the first
// outcome.
func (a *Adapter) Initialize() error {
	a.initOnce.Do(func() {
		if a.backend == nil {
			a.initErr = fmt.Errorf("%w: no backend configured", sss.ErrBackendNotInitialized)
			return
		}
		if err := a.backend.Initialize(); err != nil {
			a.initErr = fmt.Errorf("%w: %w", sss.ErrBackendNotInitialized, err)
			a.logger.Error("backend initialization failed", "error", err)
			return
		}
		a.ready.Store(true)
		a.logger.Info("backend initialized", "shapes", a.Shapes())
	})
	return a.initErr
}

// Ready reports whether Initialize has succeeded.
func (a *Adapter) Ready() bool {
	return a.ready.Load()
}

// Split hands secret and ids to the first calling shape that accepts them.
func (a *Adapter) Split(curve sss.Curve, secret []byte, ids [][]byte, threshold int) (shares []sss.Share, shape Shape, err error) {
	start := time.Now()
	defer func() {
		a.recorder.RecordOperation(metrics.OpSplit, string(curve), err, time.Since(start))
	}()

	candidates, err := a.candidates(opSplit, curve)
	if err != nil {
		return nil, ShapeNone, err
	}

	var attempts []Attempt
	for _, v := range candidates {
		shares, err := v.split(curve, secret, ids, threshold)
		if err != nil {
			a.logger.Debug("calling shape rejected", "op", opSplit, "curve", curve, "shape", v.shape, "error", err)
			attempts = append(attempts, Attempt{Shape: v.shape, Err: err})
			continue
		}
		a.negotiated(opSplit, curve, v.shape)
		return shares, v.shape, nil
	}
	return nil, ShapeNone, &NegotiationError{Op: opSplit, Curve: curve, Attempts: attempts}
}

// Combine hands shares to the first calling shape that accepts them.
// ed25519 prefers the dedicated entry point before the generic shapes.
func (a *Adapter) Combine(curve sss.Curve, shares []sss.Share, threshold int) (secret []byte, shape Shape, err error) {
	start := time.Now()
	defer func() {
		a.recorder.RecordOperation(metrics.OpCombine, string(curve), err, time.Since(start))
	}()

	candidates, err := a.candidates(opCombine, curve)
	if err != nil {
		return nil, ShapeNone, err
	}

	var attempts []Attempt
	for _, v := range candidates {
		secret, err := v.combine(curve, shares, threshold)
		if err != nil {
			a.logger.Debug("calling shape rejected", "op", opCombine, "curve", curve, "shape", v.shape, "error", err)
			attempts = append(attempts, Attempt{Shape: v.shape, Err: err})
			continue
		}
		a.negotiated(opCombine, curve, v.shape)
		return secret, v.shape, nil
	}
	return nil, ShapeNone, &NegotiationError{Op: opCombine, Curve: curve, Attempts: attempts}
}

func (a *Adapter) candidates(op string, curve sss.Curve) ([]variant, error) {
	if !a.ready.Load() {
		return nil, sss.ErrBackendNotInitialized
	}
	if len(a.table) == 0 {
		return nil, fmt.Errorf("%w: backend exposes no split/combine entry points", sss.ErrBackendUnavailable)
	}
	if !curve.Valid() {
		return nil, fmt.Errorf("%w: %q", sss.ErrUnsupportedCurve, curve)
	}

	var out []variant
	for _, v := range a.table {
		eligible := v.splits
		if op == opCombine {
			eligible = v.combines
		}
		if eligible(curve) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		if curve == sss.Ed25519 {
			return nil, fmt.Errorf("%w: backend has no edwards entry points", sss.ErrUnsupportedCurve)
		}
		return nil, fmt.Errorf("%w: no %s entry point for %s", sss.ErrBackendUnavailable, op, curve)
	}
	return out, nil
}

func (a *Adapter) negotiated(op string, curve sss.Curve, shape Shape) {
	a.recorder.RecordShape(op, string(curve), string(shape))
	if shape == ShapeLegacy && curve != sss.Secp256k1 {
		a.logger.Warn("legacy calling shape carries no curve argument; backend assumes secp256k1",
			"op", op, "curve", curve)
		return
	}
	a.logger.Debug("calling shape negotiated", "op", op, "curve", curve, "shape", shape)
}
