package control

import (
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

type Constant struct {
	Throttle float64
	Steering float64
}

func NewConstant(throttle, steering float64) *Constant {
	return &Constant{Throttle: throttle, Steering: steering}
}

// NewNeutral holds the throttle off with the wheels straight.
func NewNeutral() *Constant {
	return NewConstant(rover.PWMMin, rover.PWMNeutral)
}

func (c *Constant) Compute(x dynamo.State, t float64) dynamo.Control {
	return dynamo.Control{c.Throttle, c.Steering}
}
