package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const chromaBins = 12

// Chroma computes a 12-bin pitch-class energy profile per frame by folding
// spectral energy onto the octave-independent chromatic scale. Bins outside
// the musically useful range (below C1, above ~4 kHz) are ignored.
func Chroma(x []float64, rate int) [][]float64 {
	const frame, hop = 2048, 512
	const fLow, fHigh = 32.7, 4000.0

	s := NewSTFT(frame, hop)
	mags := s.Magnitudes(x)
	out := make([][]float64, len(mags))
	for t, mag := range mags {
		cls := make([]float64, chromaBins)
		for k := 1; k < len(mag); k++ {
			f := s.BinFrequency(k, rate)
			if f < fLow || f > fHigh {
				continue
			}
			midi := 69 + 12*math.Log2(f/440.0)
			pc := ((int(math.Round(midi)) % chromaBins) + chromaBins) % chromaBins
			cls[pc] += mag[k] * mag[k]
		}
		if max := floats.Max(cls); max > 0 {
			floats.Scale(1/max, cls)
		}
		out[t] = cls
	}
	return out
}

// MeanChroma averages a chroma sequence into a single 12-bin distribution.
func MeanChroma(frames [][]float64) []float64 {
	mean := make([]float64, chromaBins)
	if len(frames) == 0 {
		return mean
	}
	for _, fr := range frames {
		floats.Add(mean, fr)
	}
	floats.Scale(1/float64(len(frames)), mean)
	return mean
}

// DominantClass returns the index of the strongest pitch class.
func DominantClass(dist []float64) int {
	best := 0
	for i, v := range dist {
		if v > dist[best] {
			best = i
		}
	}
	return best
}
