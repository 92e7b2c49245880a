package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lehja/lehja/feature"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func sampleProfile(name string) *SpeakerProfile {
	return &SpeakerProfile{
		Name: name,
		WordFeatures: map[string]feature.WordFeatures{
			"qul_1": {
				Duration: 0.4,
				MFCCMean: []float64{1, 2, 3},
				Melody:   feature.MelodyFeatures{PitchMean: 220},
				Maqam:    feature.MaqamFeatures{DominantNote: 9},
			},
		},
		GlobalMelody: feature.GlobalFeatures{Tempo: 95, MeanPitch: 210},
		SampleCount:  2,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := NewStore(t.TempDir(), quietLogger())
	if _, err := s.Get("Nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStorePutGetNames(t *testing.T) {
	s := NewStore(t.TempDir(), quietLogger())
	s.Put(sampleProfile("Husary"))
	s.Put(sampleProfile("Abdul Basit"))

	p, err := s.Get("Husary")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.GlobalMelody.Tempo != 95 {
		t.Errorf("tempo = %v, want 95", p.GlobalMelody.Tempo)
	}

	names := s.Names()
	if len(names) != 2 || names[0] != "Abdul Basit" || names[1] != "Husary" {
		t.Errorf("names = %v, want sorted pair", names)
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, quietLogger())
	orig := sampleProfile("Abdul Basit")
	s.Put(orig)
	if err := s.Save(orig); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Abdul_Basit.json")); err != nil {
		t.Fatalf("expected slugged file name: %v", err)
	}

	fresh := NewStore(dir, quietLogger())
	if err := fresh.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	got, err := fresh.Get("Abdul Basit")
	if err != nil {
		t.Fatalf("Get after load: %v", err)
	}
	if got.SampleCount != 2 {
		t.Errorf("sample count = %d, want 2", got.SampleCount)
	}
	if got.WordFeatures["qul_1"].Melody.PitchMean != 220 {
		t.Errorf("word features lost in round trip: %+v", got.WordFeatures)
	}
	if !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, orig.CreatedAt)
	}
}

func TestStoreLoadAllSkipsGarbage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(dir, quietLogger())
	if err := s.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if n := s.Names(); len(n) != 0 {
		t.Errorf("names = %v, want none", n)
	}
}
