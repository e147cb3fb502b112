package control

import (
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

// Feedback is linear state feedback on the measurement vector:
// pwm = Trim - K (meas - Target). The heading error is wrapped.
type Feedback struct {
	K      [][]float64
	Target dynamo.State
	Trim   [2]float64
}

func NewFeedback(k [][]float64, target dynamo.State, trim [2]float64) *Feedback {
	return &Feedback{K: k, Target: target, Trim: trim}
}

func (f *Feedback) Compute(x dynamo.State, t float64) dynamo.Control {
	u := dynamo.Control{f.Trim[0], f.Trim[1]}
	for i := range u {
		if i >= len(f.K) {
			break
		}
		for j := range x {
			target := 0.0
			if j < len(f.Target) {
				target = f.Target[j]
			}
			e := x[j] - target
			if j == rover.MeasPsi {
				e = rover.WrapPi(e)
			}
			if j < len(f.K[i]) {
				u[i] -= f.K[i][j] * e
			}
		}
	}
	return u
}

// NewSpeedHeadingFeedback regulates u_meas to speed and psi_meas to
// heading. Gains are in microseconds per unit error.
func NewSpeedHeadingFeedback(speed, heading, kSpeed, kHeading float64) *Feedback {
	k := [][]float64{
		make([]float64, rover.NumOutputs),
		make([]float64, rover.NumOutputs),
	}
	k[0][rover.MeasU] = kSpeed
	k[1][rover.MeasPsi] = kHeading

	target := make(dynamo.State, rover.NumOutputs)
	target[rover.MeasU] = speed
	target[rover.MeasPsi] = heading

	// Trim throttle balances drag at the target speed for default params.
	p := rover.DefaultParams()
	thr, _ := rover.EncodePWM(rover.Command{Throttle: p.Drag() * speed / p.AMax})
	return NewFeedback(k, target, [2]float64{thr, rover.PWMNeutral})
}
