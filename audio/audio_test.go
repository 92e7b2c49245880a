package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func sine(freq float64, rate int, dur float64, amp float64) []float64 {
	n := int(dur * float64(rate))
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

func silence(rate int, dur float64) []float64 {
	return make([]float64, int(dur*float64(rate)))
}

// writeTestWAV writes mono 16-bit PCM.
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

func TestLoadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	src := sine(440, 16000, 0.5, 0.8)
	writeTestWAV(t, path, src, 16000)

	sig, err := LoadWAV(path, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Rate != 16000 {
		t.Errorf("rate = %d, want 16000", sig.Rate)
	}
	if got, want := len(sig.Samples), len(src); got < want-4 || got > want+4 {
		t.Errorf("len = %d, want ~%d", got, want)
	}
	if d := sig.Duration(); math.Abs(d-0.5) > 0.01 {
		t.Errorf("duration = %f, want ~0.5", d)
	}
}

func TestLoadWAVMissingFile(t *testing.T) {
	if _, err := LoadWAV(filepath.Join(t.TempDir(), "nope.wav"), 16000); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSliceClamps(t *testing.T) {
	sig := &Signal{Samples: make([]float64, 1600), Rate: 16000}
	if got := sig.Slice(-1, 10).Samples; len(got) != 1600 {
		t.Errorf("clamped slice len = %d, want 1600", len(got))
	}
	if got := sig.Slice(0.2, 0.1); !got.Empty() {
		t.Error("inverted slice should be empty")
	}
}

func TestSplitFindsToneBursts(t *testing.T) {
	rate := 16000
	var samples []float64
	samples = append(samples, silence(rate, 0.2)...)
	samples = append(samples, sine(440, rate, 0.3, 0.8)...)
	samples = append(samples, silence(rate, 0.2)...)
	samples = append(samples, sine(330, rate, 0.3, 0.8)...)
	samples = append(samples, silence(rate, 0.2)...)

	sig := &Signal{Samples: samples, Rate: rate}
	intervals := Split(sig, DefaultSplitParams())
	if len(intervals) != 2 {
		t.Fatalf("intervals = %d, want 2", len(intervals))
	}
	// first burst starts near 0.2s
	start := float64(intervals[0].Start) / float64(rate)
	if math.Abs(start-0.2) > 0.05 {
		t.Errorf("first interval start = %f, want ~0.2", start)
	}
	for _, iv := range intervals {
		if iv.End <= iv.Start {
			t.Errorf("degenerate interval %+v", iv)
		}
	}
}

func TestSplitSilent(t *testing.T) {
	sig := &Signal{Samples: silence(16000, 1), Rate: 16000}
	if got := Split(sig, DefaultSplitParams()); got != nil {
		t.Errorf("silent signal produced %d intervals", len(got))
	}
	empty := &Signal{Rate: 16000}
	if got := Split(empty, DefaultSplitParams()); got != nil {
		t.Error("empty signal produced intervals")
	}
}

func TestSplitContinuousTone(t *testing.T) {
	sig := &Signal{Samples: sine(440, 16000, 1.0, 0.8), Rate: 16000}
	intervals := Split(sig, DefaultSplitParams())
	if len(intervals) != 1 {
		t.Fatalf("intervals = %d, want 1", len(intervals))
	}
}
