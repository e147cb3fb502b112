package rover

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/san-kum/roversim/internal/dynamo"
)

// BodyToInertial rotates a body-frame vector into the inertial frame using
// the 3-2-1 (yaw, pitch, roll) direction cosine matrix.
func BodyToInertial(phi, theta, psi, u, v, w float64) (float64, float64, float64) {
	sphi, cphi := math.Sincos(phi)
	sth, cth := math.Sincos(theta)
	spsi, cpsi := math.Sincos(psi)

	xd := cth*cpsi*u + (sphi*sth*cpsi-cphi*spsi)*v + (cphi*sth*cpsi+sphi*spsi)*w
	yd := cth*spsi*u + (sphi*sth*spsi+cphi*cpsi)*v + (cphi*sth*spsi-sphi*cpsi)*w
	zd := -sth*u + sphi*cth*v + cphi*cth*w
	return xd, yd, zd
}

// EulerRates maps body rates to Euler angle rates. The yaw and roll rows
// divide by cos(theta); callers must keep theta inside (-pi/2, pi/2).
func EulerRates(phi, theta, p, q, r float64) (float64, float64, float64) {
	sphi, cphi := math.Sincos(phi)
	cth := math.Cos(theta)
	tth := math.Tan(theta)

	phid := p + (q*sphi+r*cphi)*tth
	thetad := q*cphi - r*sphi
	psid := (q*sphi + r*cphi) / cth
	return phid, thetad, psid
}

// CheckAttitude enforces the pitch domain (-pi/2, pi/2) and rejects angles
// whose cosine is within margin of zero. A step that jumps across the pole
// fails the range test even when it never lands near it.
func CheckAttitude(theta, margin float64) error {
	if !(math.Abs(theta) < math.Pi/2) || !(math.Cos(theta) > margin) {
		return fmt.Errorf("%w: theta=%.6f rad", dynamo.ErrAttitudeSingularity, theta)
	}
	return nil
}

// WrapPi maps an angle into (-pi, pi] as ((a+pi) mod 2pi) - pi. Both pi
// and -pi map to pi.
func WrapPi(a float64) float64 {
	w := math.Mod(a+math.Pi, 2*math.Pi)
	if w <= 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}

// Quaternion returns the unit quaternion of a 3-2-1 Euler attitude.
func Quaternion(phi, theta, psi float64) quat.Number {
	sphi, cphi := math.Sincos(phi / 2)
	sth, cth := math.Sincos(theta / 2)
	spsi, cpsi := math.Sincos(psi / 2)

	return quat.Number{
		Real: cpsi*cth*cphi + spsi*sth*sphi,
		Imag: cpsi*cth*sphi - spsi*sth*cphi,
		Jmag: cpsi*sth*cphi + spsi*cth*sphi,
		Kmag: spsi*cth*cphi - cpsi*sth*sphi,
	}
}

// EulerFromQuaternion inverts Quaternion for pitch inside (-pi/2, pi/2).
func EulerFromQuaternion(q quat.Number) (phi, theta, psi float64) {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	phi = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	s := 2 * (w*y - z*x)
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	theta = math.Asin(s)
	psi = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return phi, theta, psi
}

// Rotate applies q to a vector: q * v * conj(q).
func Rotate(q quat.Number, x, y, z float64) (float64, float64, float64) {
	v := quat.Number{Imag: x, Jmag: y, Kmag: z}
	r := quat.Mul(quat.Mul(q, v), quat.Conj(q))
	return r.Imag, r.Jmag, r.Kmag
}
