// Package orchestrator drives the full comparison pipeline: load audio,
// transcribe, segment, extract features, then either fold recordings into
// a reciter profile or score a query against a stored one.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lehja/lehja/audio"
	"github.com/lehja/lehja/config"
	"github.com/lehja/lehja/feature"
	"github.com/lehja/lehja/profile"
	"github.com/lehja/lehja/segment"
	"github.com/lehja/lehja/similarity"
)

// ErrNoUsableRecordings is returned when every recording handed to
// BuildProfile failed to process.
var ErrNoUsableRecordings = errors.New("no usable recordings")

// Transcriber is the external speech-to-text capability.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type Engine struct {
	cfg       *config.Root
	stt       Transcriber
	store     *profile.Store
	segmenter *segment.Segmenter
	extractor *feature.Extractor
	comparer  *similarity.Comparer
	log       *logrus.Entry
}

func New(cfg *config.Root, stt Transcriber, store *profile.Store, log *logrus.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		stt:       stt,
		store:     store,
		segmenter: segment.New(splitParams(cfg)),
		extractor: feature.NewExtractor(featureParams(cfg), log),
		comparer:  similarity.NewComparer(similarityParams(cfg), log),
		log:       log.WithField("component", "engine"),
	}
}

func (e *Engine) Store() *profile.Store { return e.store }

// recordingAnalysis is one fully analyzed recording: its transcription,
// ordered word occurrences with features, and whole-recording melody.
type recordingAnalysis struct {
	transcription string
	segments      []segment.WordSegment
	words         []profile.WordOccurrence
	global        feature.GlobalFeatures
}

func (e *Engine) analyze(ctx context.Context, audioPath string) (*recordingAnalysis, error) {
	sig, err := audio.LoadWAV(audioPath, e.cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	text, err := e.stt.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", audioPath, err)
	}

	segs := e.segmenter.Segment(sig, text)
	words := make([]profile.WordOccurrence, 0, len(segs))
	for _, s := range segs {
		seg := sig.Slice(s.Start, s.End)
		if seg.Empty() {
			continue
		}
		words = append(words, profile.WordOccurrence{
			Word:     s.Word,
			Features: e.extractor.Word(seg, s.End-s.Start),
		})
	}

	return &recordingAnalysis{
		transcription: text,
		segments:      segs,
		words:         words,
		global:        e.extractor.Global(sig),
	}, nil
}

// BuildProfile analyzes each recording and aggregates the results into a
// profile for the named reciter. Recordings that fail to load, transcribe
// or extract are logged and skipped; the build only fails when none
// succeed, in which case the degenerate profile is returned alongside
// ErrNoUsableRecordings and is not stored.
func (e *Engine) BuildProfile(ctx context.Context, name string, audioPaths []string) (*profile.SpeakerProfile, error) {
	log := e.log.WithField("qari", name)
	log.WithField("recordings", len(audioPaths)).Info("building profile")

	var processed []profile.RecordingFeatures
	for _, path := range audioPaths {
		a, err := e.analyze(ctx, path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("skipping recording")
			continue
		}
		processed = append(processed, profile.RecordingFeatures{Words: a.words, Global: a.global})
	}

	p := profile.Build(name, processed)
	if !p.Usable() {
		return p, fmt.Errorf("%w for %q", ErrNoUsableRecordings, name)
	}

	e.store.Put(p)
	log.WithField("sample_count", p.SampleCount).Info("profile built")
	return p, nil
}

// Compare scores a recording against the named reciter's stored profile.
// Query words with no positional counterpart in the profile are skipped;
// they contribute neither score nor feedback.
func (e *Engine) Compare(ctx context.Context, audioPath, qariName string) (*similarity.Result, error) {
	ref, err := e.store.Get(qariName)
	if err != nil {
		return nil, err
	}
	if !ref.Usable() {
		return nil, fmt.Errorf("%w: profile for %q has no samples", profile.ErrNotFound, qariName)
	}

	a, err := e.analyze(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	res := &similarity.Result{
		ID:              uuid.NewString(),
		Qari:            qariName,
		Transcription:   a.transcription,
		WordComparisons: map[string]similarity.WordComparison{},
	}

	var wordSum, melodySum float64
	matched := 0
	counts := map[string]int{}
	for _, occ := range a.words {
		counts[occ.Word]++
		id := segment.WordID(occ.Word, counts[occ.Word])
		refWord, ok := ref.WordFeatures[id]
		if !ok {
			continue
		}

		score := e.comparer.Word(occ.Features, refWord)
		res.WordComparisons[id] = similarity.WordComparison{
			Word:    occ.Word,
			Overall: score.Overall,
			Details: score,
		}
		res.Feedback = append(res.Feedback, e.comparer.WordFeedback(occ.Word, qariName, score)...)

		wordSum += score.Overall
		melodySum += score.Melody.Overall
		matched++
	}

	if matched > 0 {
		res.MelodicSimilarity = melodySum / float64(matched)
	}
	avgWord := 0.0
	if matched > 0 {
		avgWord = wordSum / float64(matched)
	}

	res.GlobalMelody = e.comparer.GlobalMelody(a.global, ref.GlobalMelody)
	res.OverallSimilarity = 0.5*avgWord + 0.5*res.GlobalMelody.Overall

	if len(res.Feedback) == 0 {
		res.Feedback = append(res.Feedback, e.comparer.OverallFeedback(qariName, res.OverallSimilarity))
	}

	e.log.WithFields(logrus.Fields{
		"qari":    qariName,
		"words":   matched,
		"overall": res.OverallSimilarity,
	}).Info("comparison complete")
	return res, nil
}

func splitParams(cfg *config.Root) audio.SplitParams {
	return audio.SplitParams{
		TopDB:       cfg.Segmenter.TopDB,
		FrameLength: cfg.Segmenter.FrameLength,
		HopLength:   cfg.Segmenter.HopLength,
	}
}

func featureParams(cfg *config.Root) feature.Params {
	p := feature.DefaultParams()
	p.SampleRate = cfg.SampleRate
	p.MFCCCoefficients = cfg.Features.MFCCCoefficients
	p.ContourLength = cfg.Features.ContourLength
	p.GlobalContourLength = cfg.Features.GlobalContourLength
	p.Pitch.FMin = cfg.Features.PitchMinHz
	p.Pitch.FMax = cfg.Features.PitchMaxHz
	p.MinSegment = cfg.Features.MinSegmentSeconds
	return p
}

func similarityParams(cfg *config.Root) similarity.Params {
	p := similarity.DefaultParams()
	p.Word = similarity.WordWeights{
		MFCC:     cfg.Weights.MFCC,
		Energy:   cfg.Weights.Energy,
		Duration: cfg.Weights.Duration,
		Melody:   cfg.Weights.Melody,
	}
	p.Melody = similarity.MelodyWeights{
		PitchStats: cfg.Weights.PitchStats,
		Contour:    cfg.Weights.Contour,
		Maqam:      cfg.Weights.Maqam,
		Ornaments:  cfg.Weights.Ornaments,
	}
	p.Global = similarity.GlobalWeights{
		Tempo:      cfg.Weights.Tempo,
		Range:      cfg.Weights.Range,
		Complexity: cfg.Weights.Complexity,
	}
	p.Thresholds = similarity.Thresholds{
		WordFeedback: cfg.Feedback.WordThreshold,
		SubScore:     cfg.Feedback.SubScoreThreshold,
		Excellent:    cfg.Feedback.ExcellentAbove,
		Good:         cfg.Feedback.GoodAbove,
	}
	return p
}
