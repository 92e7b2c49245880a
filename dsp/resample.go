package dsp

import (
	"fmt"

	"github.com/katalvlaran/lvlath/dtw"
	"gonum.org/v1/gonum/interp"
)

// Resample stretches or compresses x to exactly n points by piecewise
// linear interpolation over the index axis.
func Resample(x []float64, n int) []float64 {
	if len(x) == 0 || n <= 0 {
		return nil
	}
	if len(x) == 1 || n == 1 {
		out := make([]float64, n)
		for i := range out {
			out[i] = x[0]
		}
		return out
	}

	xs := make([]float64, len(x))
	for i := range xs {
		xs[i] = float64(i) / float64(len(x)-1)
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, x); err != nil {
		// xs is strictly increasing, so Fit cannot fail; fall back to a copy
		out := make([]float64, n)
		copy(out, x)
		return out
	}

	out := make([]float64, n)
	for j := range out {
		out[j] = pl.Predict(float64(j) / float64(n-1))
	}
	return out
}

// DTWDistance computes the dynamic-time-warping distance between two
// sequences with an unconstrained warping band.
func DTWDistance(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("dtw: empty sequence")
	}
	window := len(a)
	if len(b) > window {
		window = len(b)
	}
	dist, _, err := dtw.DTW(a, b, &dtw.Options{
		Window:     window,
		MemoryMode: dtw.FullMatrix,
	})
	if err != nil {
		return 0, fmt.Errorf("dtw: %w", err)
	}
	return dist, nil
}
