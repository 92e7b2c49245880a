// Package profile aggregates feature sets from multiple recordings of one
// reciter into a statistical profile and persists profiles as JSON.
package profile

import (
	"time"

	"github.com/lehja/lehja/feature"
)

// SpeakerProfile is the averaged reference for one reciter. WordFeatures
// is keyed by disambiguated word id (word + "_" + occurrence index), so
// repeated words are compared positionally.
type SpeakerProfile struct {
	Name         string                          `json:"name"`
	WordFeatures map[string]feature.WordFeatures `json:"word_features"`
	GlobalMelody feature.GlobalFeatures          `json:"global_melody"`
	SampleCount  int                             `json:"sample_count"`
	CreatedAt    time.Time                       `json:"created_at"`
}

// Usable reports whether the profile was built from at least one
// successfully processed recording. A profile with SampleCount zero is the
// degenerate sentinel and must not be compared against.
func (p *SpeakerProfile) Usable() bool { return p != nil && p.SampleCount > 0 }
