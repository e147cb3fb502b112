package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is a vector the integrators step. For the rover it is the nine
// integrated components; for controllers it is a measurement vector.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	return floats.Norm(s, 2)
}

// Distance is the Euclidean distance to other over the shared prefix.
func (s State) Distance(other State) float64 {
	n := min(len(s), len(other))
	return floats.Distance(s[:n], other[:n], 2)
}

// Control is an actuator vector: raw pulses going into a unit, or decoded
// commands going into the dynamics.
type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, u Control, t, dt, tol float64) (State, float64, error)
}

// Controller maps a measurement vector to an actuator vector.
type Controller interface {
	Compute(x State, t float64) Control
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Config is the loop configuration: run Duration/Dt steps of size Dt.
type Config struct {
	Dt          float64
	Duration    float64
	Seed        int64
	StopOnError bool
}
