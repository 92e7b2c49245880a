package dsp

import (
	"math"
	"sort"
)

// OnsetStrength computes a spectral-flux envelope: the half-wave rectified
// increase in log magnitude between consecutive frames, averaged over bins.
func OnsetStrength(x []float64, rate int) []float64 {
	const frame, hop = 2048, 512
	mags := NewSTFT(frame, hop).Magnitudes(x)
	if len(mags) < 2 {
		return nil
	}
	env := make([]float64, len(mags)-1)
	for t := 1; t < len(mags); t++ {
		flux := 0.0
		for k := range mags[t] {
			d := math.Log1p(mags[t][k]) - math.Log1p(mags[t-1][k])
			if d > 0 {
				flux += d
			}
		}
		env[t-1] = flux / float64(len(mags[t]))
	}
	return env
}

// Tempo estimates beats per minute from an onset envelope via
// autocorrelation over the 30..300 BPM lag range. Returns 0 when the
// envelope is too short or carries no periodicity.
func Tempo(env []float64, rate, hop int) float64 {
	const bpmMin, bpmMax = 30.0, 300.0
	framesPerSec := float64(rate) / float64(hop)
	lagMin := int(framesPerSec * 60 / bpmMax)
	lagMax := int(framesPerSec * 60 / bpmMin)
	if lagMin < 1 {
		lagMin = 1
	}
	if lagMax >= len(env) {
		lagMax = len(env) - 1
	}
	if lagMin >= lagMax {
		return 0
	}

	mean := 0.0
	for _, v := range env {
		mean += v
	}
	mean /= float64(len(env))
	centered := make([]float64, len(env))
	norm := 0.0
	for i, v := range env {
		centered[i] = v - mean
		norm += centered[i] * centered[i]
	}
	if norm == 0 {
		return 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := lagMin; lag <= lagMax; lag++ {
		sum := 0.0
		for i := 0; i+lag < len(centered); i++ {
			sum += centered[i] * centered[i+lag]
		}
		if corr := sum / norm; corr > bestCorr {
			bestCorr, bestLag = corr, lag
		}
	}
	if bestLag == 0 {
		return 0
	}
	return 60 * framesPerSec / float64(bestLag)
}

// SpectralContrast measures the mean difference, in dB, between spectral
// peaks and valleys across six octave bands starting at 200 Hz.
func SpectralContrast(x []float64, rate int) float64 {
	const frame, hop = 2048, 512
	const bands = 6
	const quantile = 0.2

	s := NewSTFT(frame, hop)
	mags := s.Magnitudes(x)
	if len(mags) == 0 {
		return 0
	}

	total, count := 0.0, 0
	for _, mag := range mags {
		for b := 0; b < bands; b++ {
			fLo := 200.0 * math.Pow(2, float64(b))
			fHi := fLo * 2
			kLo := int(fLo * float64(frame) / float64(rate))
			kHi := int(fHi * float64(frame) / float64(rate))
			if kHi > len(mag) {
				kHi = len(mag)
			}
			if kHi-kLo < 2 {
				continue
			}
			band := append([]float64(nil), mag[kLo:kHi]...)
			sort.Float64s(band)
			n := int(quantile * float64(len(band)))
			if n < 1 {
				n = 1
			}
			valley, peak := 0.0, 0.0
			for i := 0; i < n; i++ {
				valley += band[i]
				peak += band[len(band)-1-i]
			}
			valley /= float64(n)
			peak /= float64(n)
			total += 20 * math.Log10((peak+1e-10)/(valley+1e-10))
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// RMSEnergy returns the short-time RMS series of x.
func RMSEnergy(x []float64, frame, hop int) []float64 {
	return frameSeriesRMS(x, frame, hop)
}

func frameSeriesRMS(x []float64, frame, hop int) []float64 {
	var out []float64
	for start := 0; start+frame <= len(x); start += hop {
		sum := 0.0
		for _, v := range x[start : start+frame] {
			sum += v * v
		}
		out = append(out, math.Sqrt(sum/float64(frame)))
	}
	return out
}
