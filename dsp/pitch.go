package dsp

import "math"

// PitchParams bounds the fundamental-frequency search. The defaults cover
// the C2..C7 vocal range used for recitation.
type PitchParams struct {
	FMin        float64
	FMax        float64
	FrameLength int
	HopLength   int
	// Voicing is the minimum normalized autocorrelation peak for a frame
	// to count as voiced.
	Voicing float64
}

func DefaultPitchParams() PitchParams {
	return PitchParams{
		FMin:        65.41,   // C2
		FMax:        2093.00, // C7
		FrameLength: 512,
		HopLength:   256,
		Voicing:     0.3,
	}
}

// TrackPitch estimates a fundamental frequency per frame by normalized
// autocorrelation and returns the voiced estimates only; unvoiced and
// low-energy frames are dropped. The result may be empty.
func TrackPitch(x []float64, rate int, p PitchParams) []float64 {
	if len(x) < p.FrameLength || p.FMin <= 0 || p.FMax <= p.FMin {
		return nil
	}

	lagMin := int(float64(rate) / p.FMax)
	lagMax := int(float64(rate) / p.FMin)
	if lagMin < 1 {
		lagMin = 1
	}
	if lagMax >= p.FrameLength {
		lagMax = p.FrameLength - 1
	}
	if lagMin >= lagMax {
		return nil
	}

	var f0 []float64
	frame := make([]float64, p.FrameLength)
	for off := 0; off+p.FrameLength <= len(x); off += p.HopLength {
		copy(frame, x[off:off+p.FrameLength])

		mean := 0.0
		for _, v := range frame {
			mean += v
		}
		mean /= float64(len(frame))
		energy := 0.0
		for i := range frame {
			frame[i] -= mean
			energy += frame[i] * frame[i]
		}
		if energy < 1e-8 {
			continue
		}

		bestLag, bestCorr := 0, 0.0
		for lag := lagMin; lag <= lagMax; lag++ {
			sum := 0.0
			for i := 0; i+lag < len(frame); i++ {
				sum += frame[i] * frame[i+lag]
			}
			if corr := sum / energy; corr > bestCorr {
				bestCorr, bestLag = corr, lag
			}
		}
		if bestLag == 0 || bestCorr < p.Voicing {
			continue
		}
		f0 = append(f0, float64(rate)/float64(bestLag))
	}
	return f0
}

// Diff returns the first differences of x (the melodic intervals of a
// pitch series).
func Diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	out := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		out[i-1] = x[i] - x[i-1]
	}
	return out
}

// SignPattern maps first differences onto {-1, 0, +1}, the direction of
// pitch movement irrespective of magnitude.
func SignPattern(x []float64) []float64 {
	d := Diff(x)
	for i, v := range d {
		switch {
		case v > 0:
			d[i] = 1
		case v < 0:
			d[i] = -1
		default:
			d[i] = 0
		}
	}
	return d
}

// PeakToPeak returns max(x) - min(x), 0 for empty input.
func PeakToPeak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	min, max := x[0], x[0]
	for _, v := range x {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}

// MinMaxNormalize scales x into [0,1]. A flat series maps to zeros.
func MinMaxNormalize(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	min, max := x[0], x[0]
	for _, v := range x {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	span := max - min
	if span <= 0 {
		return out
	}
	for i, v := range x {
		out[i] = (v - min) / span
	}
	return out
}
