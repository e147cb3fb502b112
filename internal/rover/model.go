package rover

import (
	"math"

	"github.com/san-kum/roversim/internal/dynamo"
)

// Algebraic holds the quantities recomputed from state and command on every
// evaluation instead of being integrated.
type Algebraic struct {
	Ax, Ay, Az float64
	P, Q, R    float64
}

// Model is the continuous dynamics evaluator. It is a pure function of
// state and held command and implements dynamo.System over the nine
// integrated components.
type Model struct {
	params Params
	drag   float64
}

func NewModel(p Params) *Model {
	return &Model{params: p, drag: p.Drag()}
}

func (m *Model) Params() Params { return m.params }

func (m *Model) StateDim() int   { return IntegratedDim }
func (m *Model) ControlDim() int { return 2 }

// YawRate is the kinematic bicycle law r = (u / L) * tan(delta_max * Dstr).
// It is zero at u = 0 for any steering.
func (m *Model) YawRate(u float64, cmd Command) float64 {
	delta := m.params.DeltaMax * cmd.Steering
	return u / m.params.Wheelbase * math.Tan(delta)
}

// Algebraic evaluates the derived accelerations and body rates. Roll and
// pitch rates are pinned to zero; the rover is assumed to stay level.
func (m *Model) Algebraic(u float64, cmd Command) Algebraic {
	r := m.YawRate(u, cmd)
	thr := m.params.AMax * cmd.Throttle

	return Algebraic{
		Ax: thr - m.drag*u,
		Ay: u * r,
		Az: 0,
		P:  0,
		Q:  0,
		R:  r,
	}
}

func (m *Model) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	cmd := CommandFrom(u)

	vu, vv, vw := x[IdxU], x[IdxV], x[IdxW]
	phi, theta, psi := x[IdxPhi], x[IdxTheta], x[IdxPsi]

	a := m.Algebraic(vu, cmd)

	xd, yd, zd := BodyToInertial(phi, theta, psi, vu, vv, vw)
	phid, thetad, psid := EulerRates(phi, theta, a.P, a.Q, a.R)

	dx := make(dynamo.State, IntegratedDim)
	dx[IdxX] = xd
	dx[IdxY] = yd
	dx[IdxZ] = zd
	dx[IdxU] = a.Ax + a.R*vv - a.Q*vw
	dx[IdxV] = a.Ay + a.P*vw - a.R*vu
	dx[IdxW] = a.Az + a.Q*vu - a.P*vv
	dx[IdxPhi] = phid
	dx[IdxTheta] = thetad
	dx[IdxPsi] = psid
	return dx
}

// Evaluate returns s with its algebraic fields refreshed for cmd.
func (m *Model) Evaluate(s State, cmd Command) State {
	a := m.Algebraic(s.U, cmd)
	s.Ax, s.Ay, s.Az = a.Ax, a.Ay, a.Az
	s.P, s.Q, s.R = a.P, a.Q, a.R
	return s
}
