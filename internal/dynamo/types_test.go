package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Distance(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 6, 3}
	if got := a.Distance(b); math.Abs(got-5) > 1e-12 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := a.Distance(State{1, 2}); got != 0 {
		t.Errorf("Distance over shared prefix = %v, want 0", got)
	}
}

func TestState_CloneIndependent(t *testing.T) {
	a := State{1, 2}
	b := a.Clone()
	b[0] = 99
	if a[0] != 1 {
		t.Error("Clone shares backing array")
	}
}

func TestSimulationError_Unwrap(t *testing.T) {
	var err error = &SimulationError{Step: 3, Time: 0.03, Wrapped: ErrAttitudeSingularity}

	if !errors.Is(err, ErrAttitudeSingularity) {
		t.Error("errors.Is should see the wrapped sentinel")
	}
	if errors.Is(err, ErrScheduleSkip) {
		t.Error("errors.Is matched the wrong sentinel")
	}

	var se *SimulationError
	if !errors.As(err, &se) || se.Step != 3 {
		t.Errorf("errors.As failed: %v", se)
	}
}

func TestParallelFor(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100} {
		var hits int64
		seen := make([]int32, n)
		ParallelFor(n, 3, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
				atomic.AddInt64(&hits, 1)
			}
		})
		if int(hits) != n {
			t.Errorf("n=%d: visited %d indices", n, hits)
		}
		for i, c := range seen {
			if c != 1 {
				t.Errorf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}
