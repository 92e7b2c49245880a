// Package feature turns audio segments into the numeric descriptors the
// comparison engine works with: timbral, melodic, modal and ornamentation
// features per word, plus whole-recording melody features.
package feature

// MelodyFeatures describes the pitch behavior within one word segment.
// Degraded marks the zero-valued default returned for unvoiced or empty
// segments, so callers can tell real silence from a meaningful zero.
type MelodyFeatures struct {
	PitchMean        float64   `json:"pitch_mean"`
	PitchStd         float64   `json:"pitch_std"`
	PitchRange       float64   `json:"pitch_range"`
	PitchContour     []float64 `json:"pitch_contour"`
	MelodicIntervals []float64 `json:"melodic_intervals"`
	Degraded         bool      `json:"degraded,omitempty"`
}

// MaqamFeatures approximates the modal scale of a segment through its
// pitch-class distribution.
type MaqamFeatures struct {
	DominantNote     int                `json:"dominant_note"`
	SecondaryNote    int                `json:"secondary_note"`
	NoteDistribution []float64          `json:"note_distribution"`
	Intervals        map[string]float64 `json:"intervals"`
	Degraded         bool               `json:"degraded,omitempty"`
}

// OrnamentFeatures captures embellishment proxies: timbral variation,
// syllable emphasis, tempo and short-time energy variance.
type OrnamentFeatures struct {
	SpectralContrastMean float64 `json:"spectral_contrast_mean"`
	OnsetStrengthMean    float64 `json:"onset_strength_mean"`
	Tempo                float64 `json:"tempo"`
	EnergyVariation      float64 `json:"energy_variation"`
	Degraded             bool    `json:"degraded,omitempty"`
}

// WordFeatures is the full per-segment feature set.
type WordFeatures struct {
	MFCCMean   []float64 `json:"mfcc_mean"`
	MFCCStd    []float64 `json:"mfcc_std"`
	EnergyMean float64   `json:"energy_mean"`
	EnergyStd  float64   `json:"energy_std"`
	Duration   float64   `json:"duration"`

	Melody    MelodyFeatures   `json:"melody"`
	Maqam     MaqamFeatures    `json:"maqam"`
	Ornaments OrnamentFeatures `json:"ornaments"`
}

// GlobalFeatures describes the melodic arc of a whole recording.
type GlobalFeatures struct {
	Tempo             float64   `json:"overall_tempo"`
	PitchRange        float64   `json:"pitch_range"`
	MeanPitch         float64   `json:"mean_pitch"`
	PitchVariation    float64   `json:"pitch_variation"`
	PitchContour      []float64 `json:"full_pitch_contour"`
	ModulationPoints  []float64 `json:"modulation_points"`
	MelodicComplexity float64   `json:"melodic_complexity"`
	Degraded          bool      `json:"degraded,omitempty"`
}

// Interval strength keys of MaqamFeatures.Intervals.
const (
	IntervalMinorSecond = "minor_second"
	IntervalMajorSecond = "major_second"
	IntervalMinorThird  = "minor_third"
	IntervalMajorThird  = "major_third"
)
