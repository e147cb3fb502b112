package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Final  float64
}

// Summarize describes one channel. An empty series gives a zero Summary.
func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(series, nil)
	if len(series) == 1 {
		std = 0
	}
	return Summary{
		N:      len(series),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(series),
		Max:    floats.Max(series),
		Final:  series[len(series)-1],
	}
}

// RMS is the root mean square of a series.
func RMS(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return floats.Norm(series, 2) / math.Sqrt(float64(len(series)))
}
