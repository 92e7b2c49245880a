package orchestrator

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/lehja/lehja/config"
	"github.com/lehja/lehja/profile"
)

// stubTranscriber returns a fixed transcription for every recording.
type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func newTestEngine(t *testing.T, text string) *Engine {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	store := profile.NewStore(t.TempDir(), log)
	return New(cfg, &stubTranscriber{text: text}, store, log)
}

func writeTestWAV(t *testing.T, path string, samples []float64, rate int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dataLen := uint32(len(samples) * 2)
	w := func(v any) {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	f.WriteString("RIFF")
	w(uint32(36 + dataLen))
	f.WriteString("WAVEfmt ")
	w(uint32(16))
	w(uint16(1)) // PCM
	w(uint16(1)) // mono
	w(uint32(rate))
	w(uint32(rate * 2))
	w(uint16(2))
	w(uint16(16))
	f.WriteString("data")
	w(dataLen)
	for _, s := range samples {
		v := int16(math.Max(-1, math.Min(1, s)) * 32767)
		w(v)
	}
}

// threeWordRecording writes a fixture of three tone bursts separated by
// silence, matching a three-word transcription.
func threeWordRecording(t *testing.T, dir string) string {
	t.Helper()
	const rate = 16000
	var samples []float64
	gap := make([]float64, int(0.3*rate))
	for _, freq := range []float64{220, 330, 440} {
		burst := make([]float64, int(0.5*rate))
		for i := range burst {
			burst[i] = 0.6 * math.Sin(2*math.Pi*freq*float64(i)/rate)
		}
		samples = append(samples, gap...)
		samples = append(samples, burst...)
	}
	samples = append(samples, gap...)

	path := filepath.Join(dir, "recitation.wav")
	writeTestWAV(t, path, samples, rate)
	return path
}

func TestBuildProfile(t *testing.T) {
	e := newTestEngine(t, "bismi allahi nur")
	dir := t.TempDir()
	path := threeWordRecording(t, dir)

	p, err := e.BuildProfile(context.Background(), "Husary", []string{path, path})
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	if p.SampleCount != 2 {
		t.Errorf("sample count = %d, want 2", p.SampleCount)
	}
	for _, id := range []string{"bismi_1", "allahi_1", "nur_1"} {
		if _, ok := p.WordFeatures[id]; !ok {
			t.Errorf("missing word id %q", id)
		}
	}
	if _, err := e.Store().Get("Husary"); err != nil {
		t.Errorf("built profile not stored: %v", err)
	}
}

func TestBuildProfileSkipsBadRecordings(t *testing.T) {
	e := newTestEngine(t, "bismi allahi nur")
	dir := t.TempDir()
	good := threeWordRecording(t, dir)

	p, err := e.BuildProfile(context.Background(), "Husary", []string{"/no/such.wav", good})
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	if p.SampleCount != 1 {
		t.Errorf("sample count = %d, want 1 after skipping the bad path", p.SampleCount)
	}
}

func TestBuildProfileAllRecordingsFail(t *testing.T) {
	e := newTestEngine(t, "bismi")
	p, err := e.BuildProfile(context.Background(), "Husary", []string{"/no/such.wav"})
	if !errors.Is(err, ErrNoUsableRecordings) {
		t.Fatalf("err = %v, want ErrNoUsableRecordings", err)
	}
	if p == nil || p.SampleCount != 0 {
		t.Errorf("degenerate profile = %+v, want sample count 0", p)
	}
	if _, err := e.Store().Get("Husary"); !errors.Is(err, profile.ErrNotFound) {
		t.Error("degenerate profile must not be stored")
	}
}

func TestCompareSelf(t *testing.T) {
	e := newTestEngine(t, "bismi allahi nur")
	dir := t.TempDir()
	path := threeWordRecording(t, dir)

	if _, err := e.BuildProfile(context.Background(), "Husary", []string{path}); err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	res, err := e.Compare(context.Background(), path, "Husary")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if res.ID == "" {
		t.Error("result id not set")
	}
	if res.Qari != "Husary" {
		t.Errorf("qari = %q, want Husary", res.Qari)
	}
	if res.Transcription != "bismi allahi nur" {
		t.Errorf("transcription = %q", res.Transcription)
	}
	if len(res.WordComparisons) != 3 {
		t.Errorf("word comparisons = %d, want 3", len(res.WordComparisons))
	}
	// a recording compared against a profile built from itself
	if res.OverallSimilarity < 0.95 {
		t.Errorf("self similarity = %v, want >= 0.95", res.OverallSimilarity)
	}
	if res.MelodicSimilarity < 0 || res.MelodicSimilarity > 1 {
		t.Errorf("melodic similarity = %v out of [0,1]", res.MelodicSimilarity)
	}
	if len(res.Feedback) == 0 {
		t.Error("feedback should never be empty")
	}
}

func TestCompareUnknownQari(t *testing.T) {
	e := newTestEngine(t, "bismi")
	_, err := e.Compare(context.Background(), "irrelevant.wav", "Nobody")
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("err = %v, want profile.ErrNotFound", err)
	}
}

func TestCompareUnmatchedWordsSkipped(t *testing.T) {
	e := newTestEngine(t, "bismi allahi nur")
	dir := t.TempDir()
	path := threeWordRecording(t, dir)
	if _, err := e.BuildProfile(context.Background(), "Husary", []string{path}); err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}

	// same audio, different words: nothing matches the profile ids
	e.stt = &stubTranscriber{text: "alif lam mim"}
	res, err := e.Compare(context.Background(), path, "Husary")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(res.WordComparisons) != 0 {
		t.Errorf("word comparisons = %d, want 0 for unmatched words", len(res.WordComparisons))
	}
	// global melody still contributes to the final score
	if res.OverallSimilarity <= 0 {
		t.Errorf("overall = %v, want > 0 from the global half", res.OverallSimilarity)
	}
	if len(res.Feedback) != 1 {
		t.Errorf("feedback = %v, want the single closing message", res.Feedback)
	}
}
