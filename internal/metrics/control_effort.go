package metrics

import (
	"math"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

// ControlEffort is the mean pulse deflection from rest in microseconds:
// throttle measured from PWMMin, steering from PWMNeutral.
type ControlEffort struct {
	throttle float64
	steering float64
	samples  int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(u) < 2 {
		return
	}
	c.throttle += math.Abs(u[0] - rover.PWMMin)
	c.steering += math.Abs(u[1] - rover.PWMNeutral)
	c.samples++
}

// Split returns the throttle and steering parts of Value.
func (c *ControlEffort) Split() (throttle, steering float64) {
	if c.samples == 0 {
		return 0, 0
	}
	n := float64(c.samples)
	return c.throttle / n, c.steering / n
}

func (c *ControlEffort) Value() float64 {
	thr, str := c.Split()
	return thr + str
}

func (c *ControlEffort) Reset() { *c = ControlEffort{} }
