// Package config loads engine configuration: defaults first, then an
// optional config.yaml, then LEHJA_* environment overrides. Every
// weighting and threshold the similarity engine applies is a tunable here
// rather than a constant in code.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type STT struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type Paths struct {
	Profiles string `mapstructure:"profiles"`
}

type Segmenter struct {
	TopDB       float64 `mapstructure:"top_db"`
	FrameLength int     `mapstructure:"frame_length"`
	HopLength   int     `mapstructure:"hop_length"`
}

type Features struct {
	MFCCCoefficients    int     `mapstructure:"mfcc_coefficients"`
	ContourLength       int     `mapstructure:"contour_length"`
	GlobalContourLength int     `mapstructure:"global_contour_length"`
	PitchMinHz          float64 `mapstructure:"pitch_min_hz"`
	PitchMaxHz          float64 `mapstructure:"pitch_max_hz"`
	MinSegmentSeconds   float64 `mapstructure:"min_segment_seconds"`
}

type Weights struct {
	MFCC       float64 `mapstructure:"mfcc"`
	Energy     float64 `mapstructure:"energy"`
	Duration   float64 `mapstructure:"duration"`
	Melody     float64 `mapstructure:"melody"`
	PitchStats float64 `mapstructure:"pitch_stats"`
	Contour    float64 `mapstructure:"contour"`
	Maqam      float64 `mapstructure:"maqam"`
	Ornaments  float64 `mapstructure:"ornaments"`
	Tempo      float64 `mapstructure:"tempo"`
	Range      float64 `mapstructure:"range"`
	Complexity float64 `mapstructure:"complexity"`
}

type Feedback struct {
	WordThreshold     float64 `mapstructure:"word_threshold"`
	SubScoreThreshold float64 `mapstructure:"sub_score_threshold"`
	ExcellentAbove    float64 `mapstructure:"excellent_above"`
	GoodAbove         float64 `mapstructure:"good_above"`
}

type Root struct {
	LogLevel   string    `mapstructure:"log_level"`
	SampleRate int       `mapstructure:"sample_rate"`
	STT        STT       `mapstructure:"stt"`
	Paths      Paths     `mapstructure:"paths"`
	Segmenter  Segmenter `mapstructure:"segmenter"`
	Features   Features  `mapstructure:"features"`
	Weights    Weights   `mapstructure:"weights"`
	Feedback   Feedback  `mapstructure:"feedback"`
}

// Load reads configuration from the given file (optional when empty; the
// working directory is searched for config.yaml) on top of the defaults.
func Load(path string) (*Root, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LEHJA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("config read: %w", err)
			}
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("sample_rate", 16000)

	v.SetDefault("stt.url", "http://localhost:5000")
	v.SetDefault("stt.timeout_seconds", 120)

	v.SetDefault("paths.profiles", "profiles")

	v.SetDefault("segmenter.top_db", 20.0)
	v.SetDefault("segmenter.frame_length", 512)
	v.SetDefault("segmenter.hop_length", 128)

	v.SetDefault("features.mfcc_coefficients", 13)
	v.SetDefault("features.contour_length", 50)
	v.SetDefault("features.global_contour_length", 100)
	v.SetDefault("features.pitch_min_hz", 65.41)   // C2
	v.SetDefault("features.pitch_max_hz", 2093.00) // C7
	v.SetDefault("features.min_segment_seconds", 0.25)

	v.SetDefault("weights.mfcc", 0.15)
	v.SetDefault("weights.energy", 0.3)
	v.SetDefault("weights.duration", 0.3)
	v.SetDefault("weights.melody", 0.25)
	v.SetDefault("weights.pitch_stats", 0.1)
	v.SetDefault("weights.contour", 0.5)
	v.SetDefault("weights.maqam", 0.25)
	v.SetDefault("weights.ornaments", 0.15)
	v.SetDefault("weights.tempo", 0.3)
	v.SetDefault("weights.range", 0.4)
	v.SetDefault("weights.complexity", 0.3)

	v.SetDefault("feedback.word_threshold", 0.5)
	v.SetDefault("feedback.sub_score_threshold", 0.6)
	v.SetDefault("feedback.excellent_above", 0.8)
	v.SetDefault("feedback.good_above", 0.6)
}
