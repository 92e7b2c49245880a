// Package dsp provides the signal-processing primitives behind the feature
// extractors: short-time Fourier analysis, mel cepstra, pitch-class
// profiles, pitch tracking, onset/tempo estimation and sequence utilities.
package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// STFT computes magnitude spectra over Hann-windowed frames.
type STFT struct {
	fft    *fourier.FFT
	window []float64
	frame  int
	hop    int
}

func NewSTFT(frame, hop int) *STFT {
	return &STFT{
		fft:    fourier.NewFFT(frame),
		window: HannWindow(frame),
		frame:  frame,
		hop:    hop,
	}
}

func (s *STFT) Bins() int { return s.frame/2 + 1 }

// BinFrequency returns the center frequency of bin k at the given rate.
func (s *STFT) BinFrequency(k, rate int) float64 {
	return float64(k) * float64(rate) / float64(s.frame)
}

// Magnitudes returns one magnitude spectrum per frame. Inputs shorter than
// one frame are zero-padded so a single frame is always produced for
// non-empty input.
func (s *STFT) Magnitudes(x []float64) [][]float64 {
	if len(x) == 0 {
		return nil
	}
	if len(x) < s.frame {
		padded := make([]float64, s.frame)
		copy(padded, x)
		x = padded
	}

	numFrames := (len(x)-s.frame)/s.hop + 1
	out := make([][]float64, numFrames)
	buf := make([]float64, s.frame)
	coef := make([]complex128, s.Bins())

	for t := 0; t < numFrames; t++ {
		off := t * s.hop
		for i := 0; i < s.frame; i++ {
			buf[i] = x[off+i] * s.window[i]
		}
		coef = s.fft.Coefficients(coef, buf)
		mag := make([]float64, len(coef))
		for k, c := range coef {
			mag[k] = cmplx.Abs(c)
		}
		out[t] = mag
	}
	return out
}

func HannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
