// Package segment aligns a transcription with a recording. The external
// speech-to-text service returns word text without timestamps, so word
// boundaries are approximated from silence patterns.
package segment

import (
	"strconv"
	"strings"

	"github.com/lehja/lehja/audio"
)

// WordSegment is one transcribed word with its approximate time span.
type WordSegment struct {
	Word  string  `json:"word"`
	Start float64 `json:"start_time"`
	End   float64 `json:"end_time"`
}

type Segmenter struct {
	split audio.SplitParams
}

func New(p audio.SplitParams) *Segmenter { return &Segmenter{split: p} }

// Segment tokenizes the transcript on whitespace and assigns each word a
// time span. When the silence detector yields at least as many non-silent
// intervals as words, the i-th interval is assigned to the i-th word and
// surplus intervals are ignored. With fewer intervals the total duration is
// divided evenly across all words. An empty transcript or signal yields no
// segments.
func (s *Segmenter) Segment(sig *audio.Signal, transcript string) []WordSegment {
	words := strings.Fields(transcript)
	if len(words) == 0 || sig.Empty() {
		return nil
	}

	intervals := audio.Split(sig, s.split)
	if len(intervals) >= len(words) {
		segs := make([]WordSegment, len(words))
		for i, w := range words {
			segs[i] = WordSegment{
				Word:  w,
				Start: float64(intervals[i].Start) / float64(sig.Rate),
				End:   float64(intervals[i].End) / float64(sig.Rate),
			}
		}
		return segs
	}

	// Uniform fallback: not enough silence boundaries to go around.
	total := sig.Duration()
	per := total / float64(len(words))
	segs := make([]WordSegment, len(words))
	for i, w := range words {
		segs[i] = WordSegment{Word: w, Start: float64(i) * per, End: float64(i+1) * per}
	}
	return segs
}

// WordID disambiguates repeated words by their occurrence index within a
// recording: the Nth "qul" in the query is compared against the Nth "qul"
// in the reference.
func WordID(word string, occurrence int) string {
	return word + "_" + strconv.Itoa(occurrence)
}
