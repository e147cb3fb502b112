package integrators

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/roversim/internal/dynamo"
)

// RK4 is the classic fourth-order scheme. With a MaxStep set, an interval
// longer than MaxStep is covered in equal substeps; the control is held
// across all of them.
type RK4 struct {
	MaxStep float64

	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

// NewRK4MaxStep bounds the size of a single RK4 stage sweep.
func NewRK4MaxStep(h float64) *RK4 {
	return &RK4{MaxStep: h}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	if r.MaxStep <= 0 || dt <= r.MaxStep {
		return r.step(dyn, x, u, t, dt)
	}

	n := int(math.Ceil(dt / r.MaxStep))
	h := dt / float64(n)
	for i := 0; i < n; i++ {
		x = r.step(dyn, x, u, t+float64(i)*h, h)
	}
	return x
}

func (r *RK4) step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	r.ensureScratch(len(x))

	copy(r.k1, dyn.Derive(x, u, t))

	floats.AddScaledTo(r.scratch, x, dt/2, r.k1)
	copy(r.k2, dyn.Derive(r.scratch, u, t+dt/2))

	floats.AddScaledTo(r.scratch, x, dt/2, r.k2)
	copy(r.k3, dyn.Derive(r.scratch, u, t+dt/2))

	floats.AddScaledTo(r.scratch, x, dt, r.k3)
	copy(r.k4, dyn.Derive(r.scratch, u, t+dt))

	// x + dt/6 (k1 + 2 k2 + 2 k3 + k4)
	result := make(dynamo.State, len(x))
	copy(result, r.k1)
	floats.AddScaled(result, 2, r.k2)
	floats.AddScaled(result, 2, r.k3)
	floats.Add(result, r.k4)
	floats.AddScaledTo(result, x, dt/6, result)
	return result
}
