package metrics

import (
	"math"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

const Gravity = 9.81

// RolloverMargin tracks the smallest static rollover margin seen,
// 1 - |ay| / (g * track / (2 * h_cg)). Zero means the lateral
// acceleration reached the tip-over threshold; negative means it passed it.
type RolloverMargin struct {
	name      string
	threshold float64
	min       float64
	samples   int
}

func NewRolloverMargin(p rover.Params) *RolloverMargin {
	r := &RolloverMargin{name: "rollover_margin", threshold: math.Inf(1)}
	if p.CGHeight > 0 {
		r.threshold = Gravity * p.TrackWidth / (2 * p.CGHeight)
	}
	r.Reset()
	return r
}

// Threshold is the lateral acceleration at which the inner wheels lift.
func (r *RolloverMargin) Threshold() float64 { return r.threshold }

func (r *RolloverMargin) Name() string { return r.name }

func (r *RolloverMargin) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) <= rover.MeasAy {
		return
	}
	m := 1 - math.Abs(x[rover.MeasAy])/r.threshold
	r.min = math.Min(r.min, m)
	r.samples++
}

func (r *RolloverMargin) Value() float64 {
	if r.samples == 0 {
		return 1
	}
	return r.min
}

func (r *RolloverMargin) Reset() {
	r.min = 1
	r.samples = 0
}
