package integrators

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/roversim/internal/dynamo"
)

// Dormand-Prince 5(4) tableau.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}

	dpA = [6][6]float64{
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}

	// Fifth-order minus fourth-order weights.
	dpE = [7]float64{
		35.0/384 - 5179.0/57600,
		0,
		500.0/1113 - 7571.0/16695,
		125.0/192 - 393.0/640,
		-2187.0/6784 + 92097.0/339200,
		11.0/84 - 187.0/2100,
		-1.0 / 40,
	}
)

// RK45 is Dormand-Prince with error control. Step covers the whole interval
// it is given in as many accepted substeps as Tol requires. The control is
// constant over the interval, so substeps never straddle an input change.
//
// When MaxSubsteps runs out, the remainder is covered by one unchecked
// substep. When the error estimate is not finite, Step returns an all-NaN
// state. Both count as shortfalls.
type RK45 struct {
	Tol         float64
	MaxSubsteps int

	safety     float64
	minScale   float64
	maxScale   float64
	shortfalls int
}

var _ dynamo.AdaptiveIntegrator = (*RK45)(nil)

func NewRK45() *RK45 {
	return &RK45{
		Tol:         1e-6,
		MaxSubsteps: 10000,
		safety:      0.9,
		minScale:    0.2,
		maxScale:    10.0,
	}
}

func (r *RK45) Name() string { return "rk45" }

// Shortfalls counts the Step calls that hit the substep budget or a
// non-finite error estimate.
func (r *RK45) Shortfalls() int { return r.shortfalls }

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	end := t + dt
	h := dt
	budget := max(r.MaxSubsteps, 1)
	for i := 1; ; i++ {
		if i == budget {
			r.shortfalls++
			xNew, _ := r.trial(dyn, x, u, t, end-t)
			return xNew
		}

		last := false
		if t+h >= end {
			h = end - t
			last = true
		}

		xNew, ratio := r.trial(dyn, x, u, t, h)
		if !isFinite(ratio) {
			r.shortfalls++
			return nanState(len(x))
		}
		if ratio <= 1 {
			x = xNew
			if last {
				return x
			}
			t += h
		}
		h *= r.scale(ratio)
	}
}

// StepAdaptive takes one trial step of size dt and returns it with the
// step size the error estimate suggests next. The trial is returned even
// when it would have been rejected; callers compare dtNew with dt.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt, tol float64) (dynamo.State, float64, error) {
	saved := r.Tol
	r.Tol = tol
	xNew, ratio := r.trial(dyn, x, u, t, dt)
	r.Tol = saved

	if !xNew.IsValid() || !isFinite(ratio) {
		return xNew, dt, fmt.Errorf("%w: rk45 trial at t=%v", dynamo.ErrInvalidState, t)
	}
	return xNew, dt * r.scale(ratio), nil
}

func (r *RK45) scale(ratio float64) float64 {
	switch {
	case ratio == 0:
		return r.maxScale
	case ratio > 1:
		return math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	default:
		return math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	}
}

// trial returns the fifth-order solution and the error estimate as a
// fraction of Tol.
func (r *RK45) trial(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, h float64) (dynamo.State, float64) {
	n := len(x)
	var k [7]dynamo.State

	k[0] = dyn.Derive(x, u, t)
	stage := make(dynamo.State, n)
	for s := 1; s < 7; s++ {
		copy(stage, x)
		for j := 0; j < s; j++ {
			if a := dpA[s-1][j]; a != 0 {
				floats.AddScaled(stage, h*a, k[j])
			}
		}
		k[s] = dyn.Derive(stage, u, t+dpC[s]*h)
	}
	// Row 6 of the tableau is the fifth-order solution (FSAL).
	xNew := stage

	errEst := make([]float64, n)
	for j, e := range dpE {
		if e != 0 {
			floats.AddScaled(errEst, h*e, k[j])
		}
	}

	errMax := 0.0
	for i := range errEst {
		scale := math.Abs(x[i]) + math.Abs(h*k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst[i])/scale)
	}
	return xNew, errMax / r.Tol
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func nanState(n int) dynamo.State {
	x := make(dynamo.State, n)
	for i := range x {
		x[i] = math.NaN()
	}
	return x
}
