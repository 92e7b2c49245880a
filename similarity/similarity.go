// Package similarity scores a query recording's features against a stored
// reciter profile and turns the sub-scores into feedback.
package similarity

import (
	"github.com/sirupsen/logrus"

	"github.com/lehja/lehja/feature"
)

// WordWeights combines the per-word sub-scores into one. The literal
// values are policy, not derived constants; they come from configuration.
type WordWeights struct {
	MFCC     float64
	Energy   float64
	Duration float64
	Melody   float64
}

type MelodyWeights struct {
	PitchStats float64
	Contour    float64
	Maqam      float64
	Ornaments  float64
}

type GlobalWeights struct {
	Tempo      float64
	Range      float64
	Complexity float64
}

type Thresholds struct {
	// WordFeedback gates per-word hints on the combined word score.
	WordFeedback float64
	// SubScore gates which sub-score gets named in a hint.
	SubScore float64
	// Excellent and Good tier the closing message.
	Excellent float64
	Good      float64
}

type Params struct {
	Word       WordWeights
	Melody     MelodyWeights
	Global     GlobalWeights
	Thresholds Thresholds
	// Epsilon floors reference values in relative differences so scores
	// stay bounded near zero references.
	Epsilon float64
}

func DefaultParams() Params {
	return Params{
		Word:       WordWeights{MFCC: 0.15, Energy: 0.3, Duration: 0.3, Melody: 0.25},
		Melody:     MelodyWeights{PitchStats: 0.1, Contour: 0.5, Maqam: 0.25, Ornaments: 0.15},
		Global:     GlobalWeights{Tempo: 0.3, Range: 0.4, Complexity: 0.3},
		Thresholds: Thresholds{WordFeedback: 0.5, SubScore: 0.6, Excellent: 0.8, Good: 0.6},
		Epsilon:    1e-3,
	}
}

// WordScore carries the combined and per-aspect similarity of one word,
// all clamped to [0,1].
type WordScore struct {
	Overall  float64     `json:"overall"`
	MFCC     float64     `json:"mfcc"`
	Energy   float64     `json:"energy"`
	Duration float64     `json:"duration"`
	Melody   MelodyScore `json:"melody"`
}

type MelodyScore struct {
	Overall    float64 `json:"melody_similarity"`
	PitchStats float64 `json:"pitch_similarity"`
	Contour    float64 `json:"contour_similarity"`
	Maqam      float64 `json:"maqam_similarity"`
	Ornaments  float64 `json:"ornamentation_similarity"`
}

type GlobalScore struct {
	Overall    float64 `json:"global_melody_similarity"`
	Tempo      float64 `json:"tempo_similarity"`
	PitchRange float64 `json:"pitch_range_similarity"`
	Complexity float64 `json:"complexity_similarity"`
}

// WordComparison pairs a scored word with its text for the result map.
type WordComparison struct {
	Word    string    `json:"word"`
	Overall float64   `json:"overall"`
	Details WordScore `json:"details"`
}

// Result is the full outcome of comparing one recording against a
// profile. WordComparisons is keyed by disambiguated word id.
type Result struct {
	ID                string                    `json:"id"`
	Qari              string                    `json:"qari"`
	Transcription     string                    `json:"transcription"`
	OverallSimilarity float64                   `json:"overall_similarity"`
	MelodicSimilarity float64                   `json:"melodic_similarity"`
	GlobalMelody      GlobalScore               `json:"global_melody_analysis"`
	WordComparisons   map[string]WordComparison `json:"word_comparisons"`
	Feedback          []string                  `json:"feedback"`
}

// Comparer scores query features against profile features.
type Comparer struct {
	p   Params
	log *logrus.Entry
}

func NewComparer(p Params, log *logrus.Logger) *Comparer {
	return &Comparer{p: p, log: log.WithField("component", "similarity")}
}

// Word scores one query word against the matching reference word.
func (c *Comparer) Word(query, ref feature.WordFeatures) WordScore {
	s := WordScore{
		MFCC:     clamp01(1 - meanAbsDiff(query.MFCCMean, ref.MFCCMean)/maxf(meanAbs(ref.MFCCMean), c.p.Epsilon)),
		Energy:   c.relative(query.EnergyMean, ref.EnergyMean),
		Duration: c.relative(query.Duration, ref.Duration),
		Melody:   c.Melody(query, ref),
	}
	w := c.p.Word
	s.Overall = clamp01(w.MFCC*s.MFCC + w.Energy*s.Energy + w.Duration*s.Duration + w.Melody*s.Melody.Overall)
	return s
}

// relative is 1 - |q - r| / max(|r|, eps), clamped to [0,1].
func (c *Comparer) relative(q, r float64) float64 {
	return clamp01(1 - absf(q-r)/maxf(absf(r), c.p.Epsilon))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func meanAbs(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += absf(v)
	}
	return sum / float64(len(x))
}

func meanAbsDiff(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += absf(a[i] - b[i])
	}
	return sum / float64(n)
}
