// Package metrics provides Prometheus instrumentation for split, combine and
// identifier generation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace is the Prometheus namespace for all go-sss metrics
	Namespace = "sss"

	// Label names
	LabelOperation = "operation"
	LabelCurve     = "curve"
	LabelStatus    = "status"
	LabelShape     = "shape"
	LabelReason    = "reason"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpValidate = "validate"
	OpSplit    = "split"
	OpCombine  = "combine"
	OpGenerate = "generate"

	// Rejection reasons
	ReasonOutOfRange = "out_of_range"
	ReasonCollision  = "collision"
)

// Recorder owns one set of collectors. A nil *Recorder records nothing, so
// components can hold one unconditionally.
type Recorder struct {
	operations    *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	shapes        *prometheus.CounterVec
	rejectedDraws *prometheus.CounterVec
}

// New creates a Recorder and registers its collectors with reg. A nil reg
// leaves the collectors unregistered, which is useful in tests.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "operations_total",
				Help:      "Total number of operations by type, curve, and status",
			},
			[]string{LabelOperation, LabelCurve, LabelStatus},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of operations in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{LabelOperation, LabelCurve},
		),
		shapes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "backend_shape_total",
				Help:      "Backend calling shape negotiated per operation and curve",
			},
			[]string{LabelOperation, LabelCurve, LabelShape},
		),
		rejectedDraws: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "rejected_draws_total",
				Help:      "Random draws discarded during identifier generation",
			},
			[]string{LabelCurve, LabelReason},
		),
	}
	if reg != nil {
		for _, c := range r.Collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// Collectors returns every collector owned by r.
func (r *Recorder) Collectors() []prometheus.Collector {
	if r == nil {
		return nil
	}
	return []prometheus.Collector{r.operations, r.duration, r.shapes, r.rejectedDraws}
}

// RecordOperation counts one operation and observes its duration.
func (r *Recorder) RecordOperation(operation, curve string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.operations.WithLabelValues(operation, curve, status).Inc()
	r.duration.WithLabelValues(operation, curve).Observe(elapsed.Seconds())
}

// RecordShape counts the backend calling shape that served an operation.
func (r *Recorder) RecordShape(operation, curve, shape string) {
	if r == nil {
		return
	}
	r.shapes.WithLabelValues(operation, curve, shape).Inc()
}

// RecordRejectedDraw counts a random draw that was discarded.
func (r *Recorder) RecordRejectedDraw(curve, reason string) {
	if r == nil {
		return
	}
	r.rejectedDraws.WithLabelValues(curve, reason).Inc()
}
