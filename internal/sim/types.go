package sim

import "github.com/san-kum/roversim/internal/rover"

// Sample is one recorded instant of a run.
type Sample struct {
	T       float64
	Truth   rover.State
	Outputs rover.Measurement
	PWM     [2]float64
	Held    rover.Command
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	Errors     []error
	StepsTaken int
}

func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.T
	}
	return out
}

// Output returns one measurement channel (rover.MeasX ... rover.MeasR)
// across the run.
func (r *Result) Output(idx int) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Outputs.Vector()[idx]
	}
	return out
}

func (r *Result) Final() (Sample, bool) {
	if len(r.Samples) == 0 {
		return Sample{}, false
	}
	return r.Samples[len(r.Samples)-1], true
}

// Failed reports whether any step was refused.
func (r *Result) Failed() bool { return len(r.Errors) > 0 }
