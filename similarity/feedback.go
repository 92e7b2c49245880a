package similarity

import "fmt"

// WordFeedback emits hints for a word whose combined score fell below the
// feedback threshold, naming whichever sub-scores drove the mismatch.
func (c *Comparer) WordFeedback(word, qari string, s WordScore) []string {
	t := c.p.Thresholds
	if s.Overall >= t.WordFeedback {
		return nil
	}
	var hints []string
	if s.Melody.Overall < t.SubScore {
		hints = append(hints, fmt.Sprintf(
			"The melodic pattern for '%s' differs significantly from Sheikh %s's style.", word, qari))
	}
	if s.Duration < t.SubScore {
		hints = append(hints, fmt.Sprintf(
			"Try adjusting the duration of '%s' to match Sheikh %s's timing.", word, qari))
	}
	if s.MFCC < t.SubScore {
		hints = append(hints, fmt.Sprintf(
			"The pronunciation of '%s' could be improved to match Sheikh %s's style.", word, qari))
	}
	return hints
}

// OverallFeedback is the single closing message used when no word
// triggered a hint, tiered by the final score.
func (c *Comparer) OverallFeedback(qari string, final float64) string {
	t := c.p.Thresholds
	switch {
	case final > t.Excellent:
		return fmt.Sprintf("Excellent recitation! Your style closely matches Sheikh %s's melodic pattern.", qari)
	case final > t.Good:
		return fmt.Sprintf("Good recitation with strong elements of Sheikh %s's style. Focus on matching the melodic flow more closely.", qari)
	default:
		return fmt.Sprintf("Your recitation has some similarities to Sheikh %s's style. Try listening closely to his melodic patterns and rhythm.", qari)
	}
}
