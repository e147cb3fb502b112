package metrics

import (
	"math"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

// TrackingError is the RMS heading error against a fixed reference, taken
// the short way around the circle.
type TrackingError struct {
	name    string
	ref     float64
	sumSq   float64
	samples int
}

func NewTrackingError(ref float64) *TrackingError {
	return &TrackingError{name: "tracking_error", ref: ref}
}

func (e *TrackingError) Name() string { return e.name }

func (e *TrackingError) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) <= rover.MeasPsi {
		return
	}
	d := rover.WrapPi(x[rover.MeasPsi] - e.ref)
	e.sumSq += d * d
	e.samples++
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *TrackingError) Reset() {
	e.sumSq = 0
	e.samples = 0
}

type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) <= rover.MeasU {
		return
	}
	m.max = math.Max(m.max, math.Abs(x[rover.MeasU]))
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
