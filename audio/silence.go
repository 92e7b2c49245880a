package audio

import "math"

// SplitParams controls the energy-threshold silence detector. TopDB is the
// level below the peak frame RMS, in decibels, under which a frame counts
// as silent.
type SplitParams struct {
	TopDB       float64
	FrameLength int
	HopLength   int
}

func DefaultSplitParams() SplitParams {
	return SplitParams{TopDB: 20, FrameLength: 512, HopLength: 128}
}

// Interval is a half-open [Start, End) range in samples.
type Interval struct {
	Start int
	End   int
}

// Split returns the non-silent intervals of the signal. A silent or empty
// signal yields no intervals.
func Split(sig *Signal, p SplitParams) []Interval {
	if sig.Empty() || p.FrameLength <= 0 || p.HopLength <= 0 {
		return nil
	}

	rms := frameRMS(sig.Samples, p.FrameLength, p.HopLength)
	ref := 0.0
	for _, v := range rms {
		if v > ref {
			ref = v
		}
	}
	if ref == 0 {
		return nil
	}

	var intervals []Interval
	open := -1
	for i, v := range rms {
		loud := 20*math.Log10(v/ref) > -p.TopDB
		switch {
		case loud && open < 0:
			open = i
		case !loud && open >= 0:
			intervals = append(intervals, frameInterval(open, i, p, len(sig.Samples)))
			open = -1
		}
	}
	if open >= 0 {
		intervals = append(intervals, frameInterval(open, len(rms), p, len(sig.Samples)))
	}
	return intervals
}

func frameInterval(firstFrame, endFrame int, p SplitParams, n int) Interval {
	start := firstFrame * p.HopLength
	end := (endFrame-1)*p.HopLength + p.FrameLength
	if end > n {
		end = n
	}
	return Interval{Start: start, End: end}
}

// frameRMS computes the root-mean-square energy of each frame. The final
// partial frame is included so trailing audio is never dropped.
func frameRMS(x []float64, frame, hop int) []float64 {
	var out []float64
	for start := 0; start < len(x); start += hop {
		end := start + frame
		if end > len(x) {
			end = len(x)
		}
		sum := 0.0
		for _, v := range x[start:end] {
			sum += v * v
		}
		out = append(out, math.Sqrt(sum/float64(end-start)))
		if end == len(x) {
			break
		}
	}
	return out
}
