package rover

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/roversim/internal/dynamo"
)

const pi = math.Pi

func TestWrapPiBoundaries(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{pi, pi},
		{-pi, pi},
		{3 * pi, pi},
		{-3 * pi, pi},
		{5 * pi, pi},
		{2 * pi, 0},
		{-2 * pi, 0},
		{pi / 2, pi / 2},
		{-pi / 2, -pi / 2},
		{7.5, 7.5 - 2*pi},
		{-7.5, -7.5 + 2*pi},
	}

	for _, tt := range tests {
		got := WrapPi(tt.in)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("WrapPi(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWrapPiRange(t *testing.T) {
	for a := -50.0; a <= 50.0; a += 0.0137 {
		w := WrapPi(a)
		if !(w > -pi && w <= pi) {
			t.Fatalf("WrapPi(%v) = %v outside (-pi, pi]", a, w)
		}
		if d := math.Remainder(w-a, 2*pi); math.Abs(d) > 1e-9 {
			t.Fatalf("WrapPi(%v) = %v differs by %v modulo 2pi", a, w, d)
		}
	}
}

func TestBodyToInertialLevel(t *testing.T) {
	xd, yd, zd := BodyToInertial(0, 0, pi/2, 2, 0, 0)
	if math.Abs(xd) > 1e-12 || math.Abs(yd-2) > 1e-12 || math.Abs(zd) > 1e-12 {
		t.Errorf("heading east should move +y, got (%v, %v, %v)", xd, yd, zd)
	}

	xd, _, zd = BodyToInertial(0, 0.3, 0, 1, 0, 0)
	if math.Abs(xd-math.Cos(0.3)) > 1e-12 || math.Abs(zd+math.Sin(0.3)) > 1e-12 {
		t.Errorf("nose-up pitch should climb (z down), got x=%v z=%v", xd, zd)
	}
}

func TestDCMMatchesQuaternion(t *testing.T) {
	attitudes := [][3]float64{
		{0, 0, 0},
		{0.1, 0.2, 0.3},
		{-0.5, 1.2, 2.5},
		{1.0, -0.7, -3.0},
		{pi / 3, pi / 4, 5 * pi / 3},
	}
	vectors := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {2, -1, 0.5}}

	for _, a := range attitudes {
		q := Quaternion(a[0], a[1], a[2])
		for _, v := range vectors {
			x1, y1, z1 := BodyToInertial(a[0], a[1], a[2], v[0], v[1], v[2])
			x2, y2, z2 := Rotate(q, v[0], v[1], v[2])
			if math.Abs(x1-x2) > 1e-12 || math.Abs(y1-y2) > 1e-12 || math.Abs(z1-z2) > 1e-12 {
				t.Errorf("attitude %v vector %v: dcm (%v,%v,%v) quat (%v,%v,%v)", a, v, x1, y1, z1, x2, y2, z2)
			}
		}
	}
}

func TestQuaternionRoundTrip(t *testing.T) {
	phis := []float64{0, 0.1, 0.2, 0.5, 1, 1.5, 2, 2.5, 3, -3, -2, -1, -0.5, -0.2}
	thetas := []float64{0.1, 0.2, 0.5, 1, 1.5, -1.5, -0.5, -0.2, 0.2, 0.1, -1, -0.5, -0.2, 0}
	psis := []float64{1, 1.5, 2, 2.5, 3, -2, 0.1, 0.2, 0.5, -1, -0.5, 3, 0.6, 0}

	for i := range phis {
		q := Quaternion(phis[i], thetas[i], psis[i])
		norm := q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag
		if math.Abs(norm-1) > 1e-12 {
			t.Errorf("quaternion %d not unit: |q|^2=%v", i, norm)
		}

		phi, theta, psi := EulerFromQuaternion(q)
		if math.Abs(phi-phis[i]) > 1e-6 || math.Abs(theta-thetas[i]) > 1e-6 || math.Abs(psi-psis[i]) > 1e-6 {
			t.Errorf("%+5.3f -> %+5.3f, %+5.3f -> %+5.3f, %+5.3f -> %+5.3f",
				phis[i], phi, thetas[i], theta, psis[i], psi)
		}
	}
}

func TestHeadingQuaternion(t *testing.T) {
	// Pure heading: q = (cos(psi/2), 0, 0, sin(psi/2)).
	psi := 90.0 / 180.0 * pi
	q := Quaternion(0, 0, psi)
	if math.Abs(q.Real-math.Cos(psi/2)) > 1e-15 || math.Abs(q.Kmag-math.Sin(psi/2)) > 1e-15 {
		t.Errorf("unexpected heading quaternion %v", q)
	}
	if q.Imag != 0 || q.Jmag != 0 {
		t.Errorf("heading quaternion has roll/pitch parts: %v", q)
	}
}

func TestEulerRates(t *testing.T) {
	phid, thetad, psid := EulerRates(0, 0, 0, 0, 0.7)
	if phid != 0 || thetad != 0 || math.Abs(psid-0.7) > 1e-15 {
		t.Errorf("level yaw: got (%v, %v, %v)", phid, thetad, psid)
	}

	// Banked 90 deg, yaw rate appears as pitch rate.
	_, thetad, _ = EulerRates(pi/2, 0, 0, 0, 1)
	if math.Abs(thetad+1) > 1e-12 {
		t.Errorf("thetad = %v, want -1", thetad)
	}
}

func TestCheckAttitude(t *testing.T) {
	ok := []float64{0, 0.5, -1.5, 1.5707}
	for _, th := range ok {
		if err := CheckAttitude(th, DefaultSingularityMargin); err != nil {
			t.Errorf("theta=%v rejected: %v", th, err)
		}
	}

	bad := []float64{pi / 2, -pi / 2, 1.6, -2, math.NaN(), 2 * pi}
	for _, th := range bad {
		err := CheckAttitude(th, DefaultSingularityMargin)
		if !errors.Is(err, dynamo.ErrAttitudeSingularity) {
			t.Errorf("theta=%v: got %v, want ErrAttitudeSingularity", th, err)
		}
	}

	if err := CheckAttitude(1.5, 0.1); !errors.Is(err, dynamo.ErrAttitudeSingularity) {
		t.Errorf("wide margin should reject theta=1.5, got %v", err)
	}
}
