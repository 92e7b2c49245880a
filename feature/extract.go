package feature

import (
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lehja/lehja/audio"
	"github.com/lehja/lehja/dsp"
)

// Params holds the extraction knobs. Defaults mirror the reference
// analysis chain.
type Params struct {
	SampleRate          int
	MFCCCoefficients    int
	ContourLength       int
	GlobalContourLength int
	Pitch               dsp.PitchParams
	// MinSegment is the shortest segment, in seconds, that maqam and
	// ornamentation analysis will accept.
	MinSegment float64
}

func DefaultParams() Params {
	return Params{
		SampleRate:          16000,
		MFCCCoefficients:    13,
		ContourLength:       50,
		GlobalContourLength: 100,
		Pitch:               dsp.DefaultPitchParams(),
		MinSegment:          0.25,
	}
}

// Extractor computes feature sets from audio segments. It carries no state
// between calls; identical input produces identical output.
type Extractor struct {
	p    Params
	mfcc *dsp.MFCC
	log  *logrus.Entry
}

func NewExtractor(p Params, log *logrus.Logger) *Extractor {
	return &Extractor{
		p:    p,
		mfcc: dsp.NewMFCC(p.SampleRate, p.MFCCCoefficients),
		log:  log.WithField("component", "extractor"),
	}
}

// Word computes the full feature set for one word segment.
func (e *Extractor) Word(seg *audio.Signal, duration float64) WordFeatures {
	f := WordFeatures{Duration: duration}

	f.MFCCMean, f.MFCCStd = e.mfccStats(seg.Samples)
	f.EnergyMean, f.EnergyStd = absStats(seg.Samples)
	f.Melody = e.Melody(seg)
	f.Maqam = e.Maqam(seg)
	f.Ornaments = e.Ornaments(seg)
	return f
}

func (e *Extractor) mfccStats(x []float64) (mean, std []float64) {
	mean = make([]float64, e.p.MFCCCoefficients)
	std = make([]float64, e.p.MFCCCoefficients)
	if len(x) == 0 {
		return mean, std
	}
	frames := e.mfcc.Compute(x)
	if len(frames) == 0 {
		return mean, std
	}
	col := make([]float64, len(frames))
	for c := 0; c < e.p.MFCCCoefficients; c++ {
		for t, fr := range frames {
			col[t] = fr[c]
		}
		mean[c] = stat.Mean(col, nil)
		std[c] = math.Sqrt(stat.PopVariance(col, nil))
	}
	return mean, std
}

func absStats(x []float64) (mean, std float64) {
	if len(x) == 0 {
		return 0, 0
	}
	abs := make([]float64, len(x))
	for i, v := range x {
		abs[i] = math.Abs(v)
	}
	return stat.Mean(abs, nil), math.Sqrt(stat.PopVariance(abs, nil))
}

// Melody estimates the pitch trajectory of a segment. Empty or fully
// unvoiced segments return the zero-valued default with Degraded set.
func (e *Extractor) Melody(seg *audio.Signal) MelodyFeatures {
	if seg.Empty() {
		return MelodyFeatures{Degraded: true}
	}
	f0 := dsp.TrackPitch(seg.Samples, seg.Rate, e.p.Pitch)
	if len(f0) == 0 {
		e.log.WithField("duration", seg.Duration()).Debug("no voiced frames, melody degraded")
		return MelodyFeatures{Degraded: true}
	}

	n := e.p.ContourLength
	if len(f0) < n {
		n = len(f0)
	}
	return MelodyFeatures{
		PitchMean:        stat.Mean(f0, nil),
		PitchStd:         math.Sqrt(stat.PopVariance(f0, nil)),
		PitchRange:       dsp.PeakToPeak(f0),
		PitchContour:     dsp.Resample(f0, n),
		MelodicIntervals: dsp.Diff(f0),
	}
}

// Maqam computes the pitch-class profile of a segment. Segments shorter
// than MinSegment return the zero-valued default with Degraded set.
func (e *Extractor) Maqam(seg *audio.Signal) MaqamFeatures {
	if seg.Duration() < e.p.MinSegment {
		return MaqamFeatures{
			NoteDistribution: make([]float64, 12),
			Intervals:        zeroIntervals(),
			Degraded:         true,
		}
	}

	dist := dsp.MeanChroma(dsp.Chroma(seg.Samples, seg.Rate))
	dominant := dsp.DominantClass(dist)

	rest := append([]float64(nil), dist...)
	rest[dominant] = 0
	secondary := dsp.DominantClass(rest)

	return MaqamFeatures{
		DominantNote:     dominant,
		SecondaryNote:    secondary,
		NoteDistribution: dist,
		Intervals: map[string]float64{
			IntervalMinorSecond: dist[(dominant+1)%12],
			IntervalMajorSecond: dist[(dominant+2)%12],
			IntervalMinorThird:  dist[(dominant+3)%12],
			IntervalMajorThird:  dist[(dominant+4)%12],
		},
	}
}

func zeroIntervals() map[string]float64 {
	return map[string]float64{
		IntervalMinorSecond: 0,
		IntervalMajorSecond: 0,
		IntervalMinorThird:  0,
		IntervalMajorThird:  0,
	}
}

// Ornaments derives embellishment proxies. Tempo estimation is best-effort
// and degrades to 0 on segments too short to carry a beat.
func (e *Extractor) Ornaments(seg *audio.Signal) OrnamentFeatures {
	if seg.Duration() < e.p.MinSegment {
		return OrnamentFeatures{Degraded: true}
	}

	env := dsp.OnsetStrength(seg.Samples, seg.Rate)
	onsetMean := 0.0
	if len(env) > 0 {
		onsetMean = stat.Mean(env, nil)
	}

	energyVar := 0.0
	if rms := dsp.RMSEnergy(seg.Samples, 2048, 512); len(rms) > 1 {
		energyVar = stat.PopVariance(rms, nil)
	}

	return OrnamentFeatures{
		SpectralContrastMean: dsp.SpectralContrast(seg.Samples, seg.Rate),
		OnsetStrengthMean:    onsetMean,
		Tempo:                dsp.Tempo(env, seg.Rate, 512),
		EnergyVariation:      energyVar,
	}
}

// Global analyzes the melodic characteristics of a whole recording.
func (e *Extractor) Global(sig *audio.Signal) GlobalFeatures {
	if sig.Empty() {
		return GlobalFeatures{Degraded: true}
	}

	g := GlobalFeatures{}
	env := dsp.OnsetStrength(sig.Samples, sig.Rate)
	g.Tempo = dsp.Tempo(env, sig.Rate, 512)

	if f0 := dsp.TrackPitch(sig.Samples, sig.Rate, e.p.Pitch); len(f0) > 0 {
		n := e.p.GlobalContourLength
		if len(f0) < n {
			n = len(f0)
		}
		g.PitchRange = dsp.PeakToPeak(f0)
		g.MeanPitch = stat.Mean(f0, nil)
		g.PitchVariation = math.Sqrt(stat.PopVariance(f0, nil))
		g.PitchContour = dsp.Resample(f0, n)
	}

	chroma := dsp.Chroma(sig.Samples, sig.Rate)
	g.ModulationPoints = modulationPoints(chroma)
	g.MelodicComplexity = chromaEntropy(dsp.MeanChroma(chroma))
	return g
}

// modulationPoints splits the chroma sequence into ten equal segments and
// records the relative position of every change in dominant pitch class.
func modulationPoints(chroma [][]float64) []float64 {
	const numSegments = 10
	segLen := len(chroma) / numSegments
	if segLen == 0 {
		return nil
	}

	var points []float64
	prev := -1
	for i := 0; i < numSegments; i++ {
		start := i * segLen
		if start >= len(chroma) {
			break
		}
		end := start + segLen
		if end > len(chroma) {
			end = len(chroma)
		}
		dominant := dsp.DominantClass(dsp.MeanChroma(chroma[start:end]))
		if prev >= 0 && dominant != prev {
			points = append(points, float64(i)/numSegments)
		}
		prev = dominant
	}
	return points
}

// chromaEntropy is the Shannon entropy of the mean pitch-class
// distribution; the epsilon keeps log(0) out of flat distributions.
func chromaEntropy(dist []float64) float64 {
	const eps = 1e-10
	p := make([]float64, len(dist))
	for i, v := range dist {
		p[i] = v + eps
	}
	if sum := floats.Sum(p); sum > 0 {
		floats.Scale(1/sum, p)
	} else {
		return 0
	}
	return stat.Entropy(p)
}
