package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the one-sided magnitude spectrum of a series
// sampled every dt, with the frequency of each bin in Hz. The mean is
// removed first so bin 0 reflects only drift.
func PowerSpectrum(data []float64, dt float64) (freqs, power []float64) {
	n := len(data)
	if n < 2 || dt <= 0 {
		return nil, nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	spec := fft.FFTReal(centered)
	half := n/2 + 1
	freqs = make([]float64, half)
	power = make([]float64, half)
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) / (float64(n) * dt)
		power[k] = cmplx.Abs(spec[k]) / float64(n)
	}
	return freqs, power
}

// DominantFrequency is the nonzero bin with the largest magnitude.
func DominantFrequency(data []float64, dt float64) float64 {
	freqs, power := PowerSpectrum(data, dt)
	best, bestP := 0.0, 0.0
	for k := 1; k < len(power); k++ {
		if power[k] > bestP {
			best, bestP = freqs[k], power[k]
		}
	}
	return best
}
