// Package audio loads recordings into mono float64 signals and detects
// non-silent regions within them.
package audio

import (
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// Signal is a mono waveform. It is immutable once loaded; Slice returns
// views into the same backing array.
type Signal struct {
	Samples []float64
	Rate    int
}

func (s *Signal) Duration() float64 {
	if s.Rate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.Rate)
}

func (s *Signal) Empty() bool { return len(s.Samples) == 0 }

// Slice returns the portion of the signal between start and end seconds,
// clamped to the signal bounds.
func (s *Signal) Slice(start, end float64) *Signal {
	a := int(start * float64(s.Rate))
	b := int(end * float64(s.Rate))
	if a < 0 {
		a = 0
	}
	if b > len(s.Samples) {
		b = len(s.Samples)
	}
	if a >= b {
		return &Signal{Samples: nil, Rate: s.Rate}
	}
	return &Signal{Samples: s.Samples[a:b], Rate: s.Rate}
}

// LoadWAV decodes a WAV file into a mono signal at the requested sample
// rate, mixing down stereo and resampling when the file rate differs.
func LoadWAV(path string, rate int) (*Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio open: %w", err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("wav decode %s: %w", path, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if int(format.SampleRate) != rate {
		src = beep.Resample(4, format.SampleRate, beep.SampleRate(rate), streamer)
	}

	var samples []float64
	buf := make([][2]float64, 1024)
	for {
		n, ok := src.Stream(buf)
		for i := 0; i < n; i++ {
			samples = append(samples, 0.5*(buf[i][0]+buf[i][1]))
		}
		if !ok {
			break
		}
	}
	return &Signal{Samples: samples, Rate: rate}, nil
}
