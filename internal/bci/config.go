// Package bci implements the EEG side of the game: sample acquisition,
// SSVEP band-power feature extraction, LDA classification and the
// streaming decoder that turns brain signals into selection commands.
package bci

import "fmt"

// Config holds the acquisition and decoding parameters. The mapstructure
// tags match the keys of the eegchess.yaml config file.
type Config struct {
	SampleRate float64 `mapstructure:"sample_rate"` // Hz
	Channels   int     `mapstructure:"channels"`    // occipital montage size

	WindowSize int `mapstructure:"window_size"` // samples per analysis window
	WindowStep int `mapstructure:"window_step"` // samples between windows

	// Frequencies are the stimulus flicker rates, one per selection
	// target. Their order defines the class indices.
	Frequencies []float64 `mapstructure:"frequencies"`
	Harmonics   int       `mapstructure:"harmonics"` // harmonics per frequency, >= 1

	DwellCount    int     `mapstructure:"dwell_count"`    // consecutive agreeing windows to commit
	MinConfidence float64 `mapstructure:"min_confidence"` // posterior required to count a window
}

// DefaultConfig returns parameters suitable for a consumer headset with
// a 250 Hz sample rate. The five frequencies map to the five selection
// targets (up, down, left, right, confirm).
func DefaultConfig() Config {
	return Config{
		SampleRate:    250,
		Channels:      8,
		WindowSize:    500, // 2 seconds
		WindowStep:    125, // 0.5 second hop
		Frequencies:   []float64{7.5, 8.57, 10, 12, 15},
		Harmonics:     2,
		DwellCount:    3,
		MinConfidence: 0.6,
	}
}

// NumClasses returns the number of stimulus classes.
func (c Config) NumClasses() int {
	return len(c.Frequencies)
}

// FeatureDim returns the length of the feature vector produced for a
// window under this configuration.
func (c Config) FeatureDim() int {
	return len(c.Frequencies) * c.Harmonics
}

// Validate checks the configuration for values the pipeline cannot
// work with.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %v", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", c.Channels)
	}
	if c.WindowSize <= 0 || c.WindowStep <= 0 || c.WindowStep > c.WindowSize {
		return fmt.Errorf("invalid window: size %d, step %d", c.WindowSize, c.WindowStep)
	}
	if len(c.Frequencies) < 2 {
		return fmt.Errorf("need at least 2 stimulus frequencies, got %d", len(c.Frequencies))
	}
	if c.Harmonics < 1 {
		return fmt.Errorf("harmonics must be >= 1, got %d", c.Harmonics)
	}
	nyquist := c.SampleRate / 2
	for _, f := range c.Frequencies {
		if f <= 0 || f*float64(c.Harmonics) >= nyquist {
			return fmt.Errorf("frequency %v Hz with %d harmonics exceeds Nyquist (%v Hz)",
				f, c.Harmonics, nyquist)
		}
	}
	if c.DwellCount < 1 {
		return fmt.Errorf("dwell count must be >= 1, got %d", c.DwellCount)
	}
	if c.MinConfidence < 0 || c.MinConfidence >= 1 {
		return fmt.Errorf("min confidence must be in [0, 1), got %v", c.MinConfidence)
	}
	return nil
}
