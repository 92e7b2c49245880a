package dsp

import "math"

// MFCC computes mel-frequency cepstral coefficients: power spectrum per
// frame, triangular mel filterbank, log, then an orthonormal DCT-II.
type MFCC struct {
	stft  *STFT
	bank  [][]float64
	nCoef int
	nMels int
}

func NewMFCC(rate, nCoef int) *MFCC {
	const frame, hop, nMels = 2048, 512, 26
	return &MFCC{
		stft:  NewSTFT(frame, hop),
		bank:  melFilterBank(nMels, frame, rate, 0, float64(rate)/2),
		nCoef: nCoef,
		nMels: nMels,
	}
}

// Compute returns one coefficient vector per frame.
func (m *MFCC) Compute(x []float64) [][]float64 {
	mags := m.stft.Magnitudes(x)
	out := make([][]float64, len(mags))
	logMel := make([]float64, m.nMels)
	for t, mag := range mags {
		for b, filter := range m.bank {
			sum := 0.0
			for k, w := range filter {
				sum += w * mag[k] * mag[k]
			}
			if sum < 1e-10 {
				sum = 1e-10
			}
			logMel[b] = math.Log(sum)
		}
		out[t] = dctII(logMel, m.nCoef)
	}
	return out
}

// dctII computes the first n orthonormal DCT-II coefficients of x.
func dctII(x []float64, n int) []float64 {
	M := float64(len(x))
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		sum := 0.0
		for m, v := range x {
			sum += v * math.Cos(math.Pi*float64(k)*(float64(m)+0.5)/M)
		}
		scale := math.Sqrt(2 / M)
		if k == 0 {
			scale = math.Sqrt(1 / M)
		}
		out[k] = scale * sum
	}
	return out
}

func hzToMel(hz float64) float64 { return 2595.0 * math.Log10(1.0+hz/700.0) }

func melToHz(mel float64) float64 { return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0) }

// melFilterBank builds numMels triangular filters over fftSize/2+1 bins.
func melFilterBank(numMels, fftSize, rate int, lowFreq, highFreq float64) [][]float64 {
	halfFFT := fftSize/2 + 1
	lowMel := hzToMel(lowFreq)
	highMel := hzToMel(highFreq)

	melPoints := make([]float64, numMels+2)
	step := (highMel - lowMel) / float64(numMels+1)
	for i := range melPoints {
		melPoints[i] = lowMel + float64(i)*step
	}

	bins := make([]int, numMels+2)
	for i, m := range melPoints {
		bin := int(math.Round(melToHz(m) * float64(fftSize) / float64(rate)))
		if bin >= halfFFT {
			bin = halfFFT - 1
		}
		bins[i] = bin
	}
	// each filter needs at least one bin of width
	for i := 1; i < len(bins); i++ {
		if bins[i] <= bins[i-1] {
			bins[i] = bins[i-1] + 1
		}
	}

	bank := make([][]float64, numMels)
	for m := 0; m < numMels; m++ {
		filter := make([]float64, halfFFT)
		left, center, right := bins[m], bins[m+1], bins[m+2]
		for k := left; k < center && k < halfFFT; k++ {
			filter[k] = float64(k-left) / float64(center-left)
		}
		for k := center; k <= right && k < halfFFT; k++ {
			if right != center {
				filter[k] = float64(right-k) / float64(right-center)
			}
		}
		bank[m] = filter
	}
	return bank
}
