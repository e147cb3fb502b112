package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/rover"
)

func meas(set map[int]float64) dynamo.State {
	x := make(dynamo.State, rover.NumOutputs)
	for k, v := range set {
		x[k] = v
	}
	return x
}

func TestTrackingError(t *testing.T) {
	m := NewTrackingError(math.Pi - 0.1)

	m.Observe(meas(map[int]float64{rover.MeasPsi: -math.Pi + 0.1}), nil, 0)
	m.Observe(meas(map[int]float64{rover.MeasPsi: math.Pi - 0.1}), nil, 0.01)

	// Errors are 0.2 (across the wrap) and 0.
	want := math.Sqrt(0.2 * 0.2 / 2)
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("tracking error = %v, want %v", m.Value(), want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %v", m.Value())
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(nil, dynamo.Control{1000, 1500}, 0)
	m.Observe(nil, dynamo.Control{2000, 1000}, 0)

	if m.Value() != 750 {
		t.Errorf("control effort = %v, want 750", m.Value())
	}
	if thr, str := m.Split(); thr != 500 || str != 250 {
		t.Errorf("split = %v/%v, want 500/250", thr, str)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %v", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(0.5)
	m.Observe(meas(map[int]float64{rover.MeasPhi: 0.1}), nil, 0)
	m.Observe(meas(map[int]float64{rover.MeasTheta: -0.7}), nil, 0)
	m.Observe(meas(map[int]float64{rover.MeasU: 10}), nil, 0)
	m.Observe(meas(nil), nil, 0)

	if m.Value() != 0.75 {
		t.Errorf("stability = %v, want 0.75", m.Value())
	}
	if m.Worst() != 0.7 {
		t.Errorf("worst = %v, want 0.7", m.Worst())
	}

	speed := NewStability(5, rover.MeasU)
	speed.Observe(meas(map[int]float64{rover.MeasU: 10}), nil, 0)
	if speed.Value() != 0 {
		t.Errorf("speed stability = %v, want 0", speed.Value())
	}
}

func TestRolloverMargin(t *testing.T) {
	p := rover.DefaultParams()
	m := NewRolloverMargin(p)

	if m.Value() != 1 {
		t.Errorf("empty margin = %v, want 1", m.Value())
	}

	thr := Gravity * p.TrackWidth / (2 * p.CGHeight)
	if math.Abs(m.Threshold()-thr) > 1e-12 {
		t.Errorf("threshold = %v, want %v", m.Threshold(), thr)
	}

	m.Observe(meas(map[int]float64{rover.MeasAy: thr / 4}), nil, 0)
	m.Observe(meas(map[int]float64{rover.MeasAy: -thr / 2}), nil, 0)
	m.Observe(meas(map[int]float64{rover.MeasAy: 0}), nil, 0)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("margin = %v, want 0.5", m.Value())
	}

	m.Observe(meas(map[int]float64{rover.MeasAy: 2 * thr}), nil, 0)
	if m.Value() >= 0 {
		t.Errorf("margin past tip-over should be negative, got %v", m.Value())
	}
}

func TestRolloverMarginFlatCG(t *testing.T) {
	p := rover.DefaultParams()
	p.CGHeight = 0
	m := NewRolloverMargin(p)
	m.Observe(meas(map[int]float64{rover.MeasAy: 100}), nil, 0)
	if m.Value() != 1 {
		t.Errorf("zero cg height should never tip, got %v", m.Value())
	}
}

func TestMaxSpeed(t *testing.T) {
	m := NewMaxSpeed()
	for _, u := range []float64{1, 3, -4, 2} {
		m.Observe(meas(map[int]float64{rover.MeasU: u}), nil, 0)
	}
	if m.Value() != 4 {
		t.Errorf("max speed = %v, want 4", m.Value())
	}
}

func TestMetricsImplementInterface(t *testing.T) {
	ms := []dynamo.Metric{
		NewTrackingError(0),
		NewControlEffort(),
		NewStability(1),
		NewRolloverMargin(rover.DefaultParams()),
		NewMaxSpeed(),
	}
	seen := map[string]bool{}
	for _, m := range ms {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
