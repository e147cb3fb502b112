package rover

import "github.com/san-kum/roversim/internal/dynamo"

// Indices of the integrated components in the ODE vector.
const (
	IdxX = iota
	IdxY
	IdxZ
	IdxU
	IdxV
	IdxW
	IdxPhi
	IdxTheta
	IdxPsi

	IntegratedDim
)

// State is the full 15-scalar rover record. Position, body velocity and
// attitude are integrated; acceleration and body rates are algebraic and
// refreshed from the held command after every integration step.
type State struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`

	U float64 `json:"u" yaml:"u"`
	V float64 `json:"v" yaml:"v"`
	W float64 `json:"w" yaml:"w"`

	Ax float64 `json:"ax" yaml:"ax"`
	Ay float64 `json:"ay" yaml:"ay"`
	Az float64 `json:"az" yaml:"az"`

	Phi   float64 `json:"phi" yaml:"phi"`
	Theta float64 `json:"theta" yaml:"theta"`
	Psi   float64 `json:"psi" yaml:"psi"`

	P float64 `json:"p" yaml:"p"`
	Q float64 `json:"q" yaml:"q"`
	R float64 `json:"r" yaml:"r"`
}

// Vector packs the integrated components.
func (s State) Vector() dynamo.State {
	return dynamo.State{s.X, s.Y, s.Z, s.U, s.V, s.W, s.Phi, s.Theta, s.Psi}
}

// WithVector returns s with its integrated components replaced by x.
// Algebraic fields are left untouched.
func (s State) WithVector(x dynamo.State) State {
	s.X, s.Y, s.Z = x[IdxX], x[IdxY], x[IdxZ]
	s.U, s.V, s.W = x[IdxU], x[IdxV], x[IdxW]
	s.Phi, s.Theta, s.Psi = x[IdxPhi], x[IdxTheta], x[IdxPsi]
	return s
}

// Values lists all 15 quantities in output order.
func (s State) Values() []float64 {
	return []float64{
		s.X, s.Y, s.Z,
		s.U, s.V, s.W,
		s.Ax, s.Ay, s.Az,
		s.Phi, s.Theta, s.Psi,
		s.P, s.Q, s.R,
	}
}

func (s State) IsValid() bool {
	return dynamo.State(s.Values()).IsValid()
}

// Command is the pair of normalized actuator commands held between
// actuator samples. Nominal ranges are [0,1] and [-1,1]; nothing enforces them.
type Command struct {
	Throttle float64 `json:"throttle"`
	Steering float64 `json:"steering"`
}

func (c Command) Control() dynamo.Control {
	return dynamo.Control{c.Throttle, c.Steering}
}

// CommandFrom reads a control vector, treating missing entries as zero.
func CommandFrom(u dynamo.Control) Command {
	var c Command
	if len(u) > 0 {
		c.Throttle = u[0]
	}
	if len(u) > 1 {
		c.Steering = u[1]
	}
	return c
}
