package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/roversim/internal/dynamo"
)

type simpleDynamics struct{}

func (s *simpleDynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *simpleDynamics) StateDim() int   { return 2 }
func (s *simpleDynamics) ControlDim() int { return 0 }

// dragDynamics is a first-order speed loop: du = a*cmd - c*u.
type dragDynamics struct {
	a, c float64
}

func (d *dragDynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{d.a*u[0] - d.c*x[0]}
}

func (d *dragDynamics) StateDim() int   { return 1 }
func (d *dragDynamics) ControlDim() int { return 1 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &simpleDynamics{}
	integ := NewRK4()

	x0 := dynamo.State{1.0, 0.0}
	u := dynamo.Control{}
	dt := 0.01
	steps := 100

	x := x0
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, u, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4DragClosedForm(t *testing.T) {
	dyn := &dragDynamics{a: 3, c: 0.6}
	integ := NewRK4()

	x := dynamo.State{0}
	dt := 0.02
	steps := 500
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, dynamo.Control{1}, float64(i)*dt, dt)
	}

	tf := float64(steps) * dt
	vmax := dyn.a / dyn.c
	expected := vmax * (1 - math.Exp(-dyn.c*tf))
	if math.Abs(x[0]-expected) > 1e-6 {
		t.Errorf("u(%.1f) = %.10f, want %.10f", tf, x[0], expected)
	}
}

func TestRK4ReusesScratchAcrossDims(t *testing.T) {
	integ := NewRK4()

	x1 := integ.Step(&dragDynamics{a: 1, c: 1}, dynamo.State{0}, dynamo.Control{1}, 0, 0.1)
	x2 := integ.Step(&simpleDynamics{}, dynamo.State{1, 0}, nil, 0, 0.1)

	if len(x1) != 1 || len(x2) != 2 {
		t.Fatalf("unexpected dims %d, %d", len(x1), len(x2))
	}
	if !x2.IsValid() {
		t.Error("RK4 produced invalid state after dimension change")
	}
}

func TestEulerFirstOrder(t *testing.T) {
	dyn := &dragDynamics{a: 2, c: 0.5}
	integ := NewEuler()

	x := integ.Step(dyn, dynamo.State{1}, dynamo.Control{1}, 0, 0.1)

	// 1 + 0.1*(2 - 0.5)
	if math.Abs(x[0]-1.15) > 1e-12 {
		t.Errorf("Euler step = %.12f, want 1.15", x[0])
	}
}

func TestRK4MaxStepSplitsInterval(t *testing.T) {
	dyn := &simpleDynamics{}
	fine := NewRK4()
	split := NewRK4MaxStep(0.01)

	x := dynamo.State{1, 0}
	for i := 0; i < 10; i++ {
		x = fine.Step(dyn, x, nil, float64(i)*0.01, 0.01)
	}
	y := split.Step(dyn, dynamo.State{1, 0}, nil, 0, 0.1)

	for i := range x {
		if math.Abs(x[i]-y[i]) > 1e-12 {
			t.Errorf("component %d: split %.15f, fine %.15f", i, y[i], x[i])
		}
	}
}
