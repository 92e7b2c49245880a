package feature

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/lehja/lehja/audio"
)

func newTestExtractor() *Extractor {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewExtractor(DefaultParams(), log)
}

func toneSignal(freq float64, dur float64) *audio.Signal {
	const rate = 16000
	samples := make([]float64, int(dur*rate))
	for i := range samples {
		samples[i] = 0.7 * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return &audio.Signal{Samples: samples, Rate: rate}
}

func silentSignal(dur float64) *audio.Signal {
	const rate = 16000
	return &audio.Signal{Samples: make([]float64, int(dur*rate)), Rate: rate}
}

func TestWordDeterministic(t *testing.T) {
	e := newTestExtractor()
	seg := toneSignal(330, 0.5)

	a := e.Word(seg, 0.5)
	b := e.Word(seg, 0.5)

	if a.Duration != 0.5 {
		t.Errorf("duration = %v, want 0.5", a.Duration)
	}
	if len(a.MFCCMean) != 13 || len(a.MFCCStd) != 13 {
		t.Fatalf("mfcc dims = %d/%d, want 13/13", len(a.MFCCMean), len(a.MFCCStd))
	}
	for i := range a.MFCCMean {
		if a.MFCCMean[i] != b.MFCCMean[i] || a.MFCCStd[i] != b.MFCCStd[i] {
			t.Fatal("mfcc stats differ between identical runs")
		}
	}
	if a.Melody.PitchMean != b.Melody.PitchMean {
		t.Error("pitch mean differs between identical runs")
	}
	if a.EnergyMean <= 0 {
		t.Errorf("energy mean = %v, want > 0 for a tone", a.EnergyMean)
	}
}

func TestMelodyTone(t *testing.T) {
	e := newTestExtractor()
	m := e.Melody(toneSignal(440, 0.6))

	if m.Degraded {
		t.Fatal("steady tone marked degraded")
	}
	if math.Abs(m.PitchMean-440) > 20 {
		t.Errorf("pitch mean = %f, want ~440", m.PitchMean)
	}
	if len(m.PitchContour) == 0 || len(m.PitchContour) > 50 {
		t.Errorf("contour length = %d, want 1..50", len(m.PitchContour))
	}
}

func TestMelodyUnvoicedDegrades(t *testing.T) {
	e := newTestExtractor()
	m := e.Melody(silentSignal(0.5))
	if !m.Degraded {
		t.Error("silence should degrade melody features")
	}
	if m.PitchMean != 0 || len(m.PitchContour) != 0 {
		t.Error("degraded melody should carry zero values")
	}
	if !e.Melody(&audio.Signal{Rate: 16000}).Degraded {
		t.Error("empty segment should degrade melody features")
	}
}

func TestMaqamDominantNote(t *testing.T) {
	e := newTestExtractor()
	m := e.Maqam(toneSignal(440, 0.5))

	if m.Degraded {
		t.Fatal("half-second tone marked degraded")
	}
	// A440 is pitch class 9
	if m.DominantNote != 9 {
		t.Errorf("dominant note = %d, want 9", m.DominantNote)
	}
	if m.SecondaryNote == m.DominantNote {
		t.Error("secondary note must differ from dominant")
	}
	if len(m.NoteDistribution) != 12 {
		t.Fatalf("distribution bins = %d, want 12", len(m.NoteDistribution))
	}
	for _, key := range []string{IntervalMinorSecond, IntervalMajorSecond, IntervalMinorThird, IntervalMajorThird} {
		if _, ok := m.Intervals[key]; !ok {
			t.Errorf("missing interval %q", key)
		}
	}
}

func TestMaqamShortSegmentDegrades(t *testing.T) {
	e := newTestExtractor()
	m := e.Maqam(toneSignal(440, 0.1))
	if !m.Degraded {
		t.Error("segment under the minimum length should degrade")
	}
	if len(m.NoteDistribution) != 12 || len(m.Intervals) != 4 {
		t.Error("degraded maqam should keep its zero-valued shape")
	}
}

func TestOrnamentsShortSegmentDegrades(t *testing.T) {
	e := newTestExtractor()
	if !e.Ornaments(toneSignal(440, 0.1)).Degraded {
		t.Error("segment under the minimum length should degrade")
	}
	o := e.Ornaments(toneSignal(440, 0.5))
	if o.Degraded {
		t.Error("half-second tone marked degraded")
	}
}

func TestGlobalTone(t *testing.T) {
	e := newTestExtractor()
	g := e.Global(toneSignal(300, 2.0))

	if g.Degraded {
		t.Fatal("two-second tone marked degraded")
	}
	if math.Abs(g.MeanPitch-300) > 20 {
		t.Errorf("mean pitch = %f, want ~300", g.MeanPitch)
	}
	if len(g.PitchContour) == 0 || len(g.PitchContour) > 100 {
		t.Errorf("contour length = %d, want 1..100", len(g.PitchContour))
	}
	// a single steady tone never changes dominant pitch class
	if len(g.ModulationPoints) != 0 {
		t.Errorf("modulation points = %v, want none", g.ModulationPoints)
	}
	if g.MelodicComplexity < 0 {
		t.Errorf("complexity = %v, want >= 0", g.MelodicComplexity)
	}
}

func TestGlobalEmptyDegrades(t *testing.T) {
	e := newTestExtractor()
	if !e.Global(&audio.Signal{Rate: 16000}).Degraded {
		t.Error("empty recording should degrade global features")
	}
}

func TestModulationPoints(t *testing.T) {
	// alternate dominant class every segment: 40 frames, 10 segments of 4
	chroma := make([][]float64, 40)
	for i := range chroma {
		c := make([]float64, 12)
		if (i/4)%2 == 0 {
			c[0] = 1
		} else {
			c[5] = 1
		}
		chroma[i] = c
	}
	points := modulationPoints(chroma)
	if len(points) != 9 {
		t.Fatalf("points = %d, want 9 for an alternating sequence", len(points))
	}
	for i, p := range points {
		if p < 0 || p >= 1 {
			t.Errorf("point %d = %v, want [0,1)", i, p)
		}
	}
	if got := modulationPoints(chroma[:5]); got != nil {
		t.Errorf("too-short sequence should have no points, got %v", got)
	}
}

func TestChromaEntropyBounds(t *testing.T) {
	flat := make([]float64, 12)
	for i := range flat {
		flat[i] = 1.0 / 12
	}
	maxEntropy := chromaEntropy(flat)
	if math.Abs(maxEntropy-math.Log(12)) > 1e-6 {
		t.Errorf("flat entropy = %v, want ln(12)", maxEntropy)
	}

	peaked := make([]float64, 12)
	peaked[3] = 1
	if got := chromaEntropy(peaked); got >= maxEntropy {
		t.Errorf("peaked entropy %v not below flat entropy %v", got, maxEntropy)
	}
}
