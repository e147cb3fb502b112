package control

import (
	"fmt"
	"math"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

// HeadingPID steers toward a heading reference using psi_meas and holds a
// fixed cruise throttle pulse. Steering output is saturated to the
// nominal pulse range; the integral is clamped to the same authority.
type HeadingPID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Throttle float64

	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewHeadingPID(kp, ki, kd, target, throttle float64) *HeadingPID {
	return &HeadingPID{
		Kp:       kp,
		Ki:       ki,
		Kd:       kd,
		Target:   target,
		Throttle: throttle,
		first:    true,
	}
}

// Error is the shortest signed angle from psi to the target.
func (p *HeadingPID) Error(psi float64) float64 {
	return rover.WrapPi(p.Target - psi)
}

func (p *HeadingPID) Compute(x dynamo.State, t float64) dynamo.Control {
	if len(x) <= rover.MeasPsi {
		return dynamo.Control{rover.PWMMin, rover.PWMNeutral}
	}

	err := p.Error(x[rover.MeasPsi])

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.output(p.Kp * err)
	}

	dt := t - p.prevT
	if dt > 0 {
		p.integral += err * dt
		if p.Ki != 0 {
			lim := 1 / math.Abs(p.Ki)
			p.integral = math.Max(-lim, math.Min(lim, p.integral))
		}
		derivative := rover.WrapPi(err-p.prevErr) / dt

		u := p.Kp*err + p.Ki*p.integral + p.Kd*derivative

		p.prevErr = err
		p.prevT = t

		return p.output(u)
	}
	return p.output(p.Kp * err)
}

// output maps a normalized steering demand to pulses.
func (p *HeadingPID) output(steer float64) dynamo.Control {
	steer = math.Max(-1, math.Min(1, steer))
	_, str := rover.EncodePWM(rover.Command{Steering: steer})
	return dynamo.Control{p.Throttle, str}
}

// Reset clears integral and derivative state
func (p *HeadingPID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *HeadingPID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":       p.Kp,
		"Ki":       p.Ki,
		"Kd":       p.Kd,
		"Target":   p.Target,
		"Throttle": p.Throttle,
	}
}

// SetParam adjusts a PID parameter
func (p *HeadingPID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	case "Throttle":
		p.Throttle = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
