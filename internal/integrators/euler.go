package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/roversim/internal/dynamo"
)

// Euler is forward Euler. It exists to show how much RK4 buys on the
// rover's rotational coupling.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	floats.AddScaledTo(result, x, dt, dx)
	return result
}
