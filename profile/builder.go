package profile

import (
	"sort"
	"time"

	"github.com/lehja/lehja/feature"
	"github.com/lehja/lehja/segment"
)

// WordOccurrence is one word of a recording, in recitation order, with its
// extracted features.
type WordOccurrence struct {
	Word     string
	Features feature.WordFeatures
}

// RecordingFeatures is the analysis of one successfully processed
// recording.
type RecordingFeatures struct {
	Words  []WordOccurrence
	Global feature.GlobalFeatures
}

// Build averages the per-word and global features of the given recordings
// into a profile. Word ids are assigned per recording, counting
// occurrences of each word from one, so the Nth occurrence in every
// recording lands in the same bucket. An empty recordings slice yields a
// degenerate profile with SampleCount zero.
func Build(name string, recordings []RecordingFeatures) *SpeakerProfile {
	p := &SpeakerProfile{
		Name:         name,
		WordFeatures: map[string]feature.WordFeatures{},
		SampleCount:  len(recordings),
		CreatedAt:    time.Now().UTC(),
	}
	if len(recordings) == 0 {
		return p
	}

	byID := map[string][]feature.WordFeatures{}
	var order []string
	globals := make([]feature.GlobalFeatures, 0, len(recordings))

	for _, rec := range recordings {
		counts := map[string]int{}
		for _, occ := range rec.Words {
			counts[occ.Word]++
			id := segment.WordID(occ.Word, counts[occ.Word])
			if _, seen := byID[id]; !seen {
				order = append(order, id)
			}
			byID[id] = append(byID[id], occ.Features)
		}
		globals = append(globals, rec.Global)
	}

	for _, id := range order {
		p.WordFeatures[id] = averageWordFeatures(byID[id])
	}
	p.GlobalMelody = averageGlobal(globals)
	return p
}

// averageWordFeatures folds feature sets of the same word id across
// recordings. Scalars and interval maps are arithmetic means; coefficient
// vectors are element-wise means. Pitch contours are fixed-length by
// extraction, but degraded samples carry empty ones, so sequences are
// averaged over the non-empty samples only.
func averageWordFeatures(list []feature.WordFeatures) feature.WordFeatures {
	if len(list) == 1 {
		return list[0]
	}
	out := feature.WordFeatures{}
	n := float64(len(list))

	for _, f := range list {
		out.EnergyMean += f.EnergyMean / n
		out.EnergyStd += f.EnergyStd / n
		out.Duration += f.Duration / n
	}
	out.MFCCMean = meanVectors(collect(list, func(f feature.WordFeatures) []float64 { return f.MFCCMean }))
	out.MFCCStd = meanVectors(collect(list, func(f feature.WordFeatures) []float64 { return f.MFCCStd }))

	out.Melody = averageMelody(list)
	out.Maqam = averageMaqam(list)
	out.Ornaments = averageOrnaments(list)
	return out
}

func averageMelody(list []feature.WordFeatures) feature.MelodyFeatures {
	m := feature.MelodyFeatures{Degraded: true}
	n := float64(len(list))
	for _, f := range list {
		m.PitchMean += f.Melody.PitchMean / n
		m.PitchStd += f.Melody.PitchStd / n
		m.PitchRange += f.Melody.PitchRange / n
		if !f.Melody.Degraded {
			m.Degraded = false
		}
	}
	m.PitchContour = meanVectors(collect(list, func(f feature.WordFeatures) []float64 { return f.Melody.PitchContour }))
	m.MelodicIntervals = meanVectors(collect(list, func(f feature.WordFeatures) []float64 { return f.Melody.MelodicIntervals }))
	return m
}

func averageMaqam(list []feature.WordFeatures) feature.MaqamFeatures {
	q := feature.MaqamFeatures{Intervals: map[string]float64{}, Degraded: true}
	n := float64(len(list))
	for _, f := range list {
		q.DominantNote = f.Maqam.DominantNote
		q.SecondaryNote = f.Maqam.SecondaryNote
		for k, v := range f.Maqam.Intervals {
			q.Intervals[k] += v / n
		}
		if !f.Maqam.Degraded {
			q.Degraded = false
		}
	}
	q.NoteDistribution = meanVectors(collect(list, func(f feature.WordFeatures) []float64 { return f.Maqam.NoteDistribution }))
	return q
}

func averageOrnaments(list []feature.WordFeatures) feature.OrnamentFeatures {
	o := feature.OrnamentFeatures{Degraded: true}
	n := float64(len(list))
	for _, f := range list {
		o.SpectralContrastMean += f.Ornaments.SpectralContrastMean / n
		o.OnsetStrengthMean += f.Ornaments.OnsetStrengthMean / n
		o.Tempo += f.Ornaments.Tempo / n
		o.EnergyVariation += f.Ornaments.EnergyVariation / n
		if !f.Ornaments.Degraded {
			o.Degraded = false
		}
	}
	return o
}

// averageGlobal folds whole-recording melody features. Scalars are means.
// The full pitch contour is not averaged: contour lengths may differ
// between recordings, so the sample whose length is closest to the mean
// length is taken as representative. Modulation points are sparse event
// positions, so they are pooled and sorted rather than averaged.
func averageGlobal(globals []feature.GlobalFeatures) feature.GlobalFeatures {
	g := feature.GlobalFeatures{Degraded: true}
	if len(globals) == 0 {
		return g
	}
	n := float64(len(globals))
	for _, s := range globals {
		g.Tempo += s.Tempo / n
		g.PitchRange += s.PitchRange / n
		g.MeanPitch += s.MeanPitch / n
		g.PitchVariation += s.PitchVariation / n
		g.MelodicComplexity += s.MelodicComplexity / n
		g.ModulationPoints = append(g.ModulationPoints, s.ModulationPoints...)
		if !s.Degraded {
			g.Degraded = false
		}
	}
	sort.Float64s(g.ModulationPoints)
	g.PitchContour = representativeContour(globals)
	return g
}

func representativeContour(globals []feature.GlobalFeatures) []float64 {
	meanLen := 0.0
	for _, s := range globals {
		meanLen += float64(len(s.PitchContour))
	}
	meanLen /= float64(len(globals))

	best := 0
	for i, s := range globals {
		if diff(float64(len(s.PitchContour)), meanLen) < diff(float64(len(globals[best].PitchContour)), meanLen) {
			best = i
		}
	}
	return globals[best].PitchContour
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// collect gathers one sequence field from every sample.
func collect(list []feature.WordFeatures, get func(feature.WordFeatures) []float64) [][]float64 {
	out := make([][]float64, 0, len(list))
	for _, f := range list {
		out = append(out, get(f))
	}
	return out
}

// meanVectors returns the element-wise mean over the non-empty samples,
// truncated to their shortest common length.
func meanVectors(vecs [][]float64) []float64 {
	minLen, count := 0, 0
	for _, v := range vecs {
		if len(v) == 0 {
			continue
		}
		if count == 0 || len(v) < minLen {
			minLen = len(v)
		}
		count++
	}
	if count == 0 {
		return nil
	}

	mean := make([]float64, minLen)
	for _, v := range vecs {
		if len(v) == 0 {
			continue
		}
		for i := 0; i < minLen; i++ {
			mean[i] += v[i]
		}
	}
	for i := range mean {
		mean[i] /= float64(count)
	}
	return mean
}
