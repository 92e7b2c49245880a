package similarity

import (
	"gonum.org/v1/gonum/floats"

	"github.com/lehja/lehja/dsp"
	"github.com/lehja/lehja/feature"
)

// neutralScore stands in for a contour comparison that failed inside the
// DTW computation, per the recover-locally error policy.
const neutralScore = 0.5

// Melody scores the melodic aspects of one word. The contour sub-score
// compares the sign pattern of pitch movement rather than absolute pitch,
// so a reciter in a different register still matches on shape.
func (c *Comparer) Melody(query, ref feature.WordFeatures) MelodyScore {
	s := MelodyScore{PitchStats: 1}

	if query.Melody.PitchMean != 0 && ref.Melody.PitchMean != 0 {
		s.PitchStats = c.relative(query.Melody.PitchMean, ref.Melody.PitchMean)
	}
	s.Contour = c.contourSimilarity(
		dsp.SignPattern(query.Melody.PitchContour),
		dsp.SignPattern(ref.Melody.PitchContour),
	)
	s.Maqam = cosineSimilarity(query.Maqam.NoteDistribution, ref.Maqam.NoteDistribution)
	if ref.Ornaments.EnergyVariation > 0 {
		s.Ornaments = c.relative(query.Ornaments.EnergyVariation, ref.Ornaments.EnergyVariation)
	}

	w := c.p.Melody
	s.Overall = clamp01(w.PitchStats*s.PitchStats + w.Contour*s.Contour + w.Maqam*s.Maqam + w.Ornaments*s.Ornaments)
	return s
}

// GlobalMelody scores whole-recording melody: tempo, pitch-range shape and
// melodic complexity. Contours are min-max normalized before the DTW
// comparison so only their shape matters.
func (c *Comparer) GlobalMelody(query, ref feature.GlobalFeatures) GlobalScore {
	s := GlobalScore{
		Tempo:      c.relative(query.Tempo, ref.Tempo),
		Complexity: c.relative(query.MelodicComplexity, ref.MelodicComplexity),
	}
	if len(query.PitchContour) > 0 && len(ref.PitchContour) > 0 {
		s.PitchRange = c.contourSimilarity(
			dsp.MinMaxNormalize(query.PitchContour),
			dsp.MinMaxNormalize(ref.PitchContour),
		)
	}

	w := c.p.Global
	s.Overall = clamp01(w.Tempo*s.Tempo + w.Range*s.PitchRange + w.Complexity*s.Complexity)
	return s
}

// contourSimilarity converts a DTW distance into [0,1], normalizing by the
// query length as the maximum possible distance. DTW failures degrade to
// the neutral score rather than failing the comparison.
func (c *Comparer) contourSimilarity(query, ref []float64) float64 {
	if len(query) == 0 || len(ref) == 0 {
		return 0
	}
	dist, err := dsp.DTWDistance(query, ref)
	if err != nil {
		c.log.WithError(err).Debug("contour comparison degraded to neutral")
		return neutralScore
	}
	sim := 1 - dist/float64(len(query))
	return clamp01(sim)
}

// cosineSimilarity compares two pitch-class distributions, clamped to
// [0,1]. Zero-sum distributions score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	if floats.Sum(a) <= 0 || floats.Sum(b) <= 0 {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp01(floats.Dot(a, b) / (na * nb))
}
