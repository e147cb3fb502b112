package rover

import (
	"fmt"

	"gonum.org/v1/gonum/num/quat"

	"github.com/san-kum/roversim/internal/dynamo"
)

// Indices into a measurement vector.
const (
	MeasX = iota
	MeasY
	MeasZ
	MeasU
	MeasV
	MeasW
	MeasAx
	MeasAy
	MeasAz
	MeasPhi
	MeasTheta
	MeasPsi
	MeasP
	MeasQ
	MeasR

	NumOutputs
)

var OutputNames = [NumOutputs]string{
	"x_meas", "y_meas", "z_meas",
	"u_meas", "v_meas", "w_meas",
	"ax_meas", "ay_meas", "az_meas",
	"phi_meas", "theta_meas", "psi_meas",
	"p_meas", "q_meas", "r_meas",
}

// Measurement is a sensor snapshot. It mirrors State verbatim except that
// Psi is wrapped into (-pi, pi].
type Measurement State

// Measure builds the snapshot published at a sensor sample.
func Measure(s State) Measurement {
	s.Psi = WrapPi(s.Psi)
	return Measurement(s)
}

func (m Measurement) Vector() dynamo.State {
	return State(m).Values()
}

func (m Measurement) Quaternion() quat.Number {
	return Quaternion(m.Phi, m.Theta, m.Psi)
}

// MeasurementFromVector reads a 15-element vector in OutputNames order.
func MeasurementFromVector(v []float64) (Measurement, error) {
	if len(v) != NumOutputs {
		return Measurement{}, fmt.Errorf("%w: measurement needs %d values, got %d", dynamo.ErrDimensionMismatch, NumOutputs, len(v))
	}
	return Measurement{
		X: v[MeasX], Y: v[MeasY], Z: v[MeasZ],
		U: v[MeasU], V: v[MeasV], W: v[MeasW],
		Ax: v[MeasAx], Ay: v[MeasAy], Az: v[MeasAz],
		Phi: v[MeasPhi], Theta: v[MeasTheta], Psi: v[MeasPsi],
		P: v[MeasP], Q: v[MeasQ], R: v[MeasR],
	}, nil
}
