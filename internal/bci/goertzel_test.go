package bci

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, rate float64, n int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return out
}

func TestGoertzelDetectsTone(t *testing.T) {
	const rate = 250.0
	samples := sine(10, rate, 500, 2.0)

	at := GoertzelPower(samples, rate, 10)
	off := GoertzelPower(samples, rate, 15)

	// Pure tone of amplitude A gives about A*A/4 at the tone frequency.
	assert.InDelta(t, 1.0, at, 0.05)
	assert.Less(t, off, at/100)
}

func TestGoertzelSeparatesCloseFrequencies(t *testing.T) {
	const rate = 250.0
	samples := sine(8.57, rate, 500, 1.0)

	at := GoertzelPower(samples, rate, 8.57)
	neighbor := GoertzelPower(samples, rate, 7.5)

	assert.Greater(t, at, neighbor*5)
}

func TestGoertzelIgnoresDCOffset(t *testing.T) {
	const rate = 250.0
	samples := sine(12, rate, 500, 1.0)
	for i := range samples {
		samples[i] += 50
	}

	at := GoertzelPower(samples, rate, 12)
	assert.InDelta(t, 0.25, at, 0.02)
}

func TestFeatureExtractorLayout(t *testing.T) {
	cfg := DefaultConfig()
	ext := NewFeatureExtractor(cfg)

	w := Window{Data: make([][]float64, cfg.Channels)}
	for ch := range w.Data {
		w.Data[ch] = sine(cfg.Frequencies[2], cfg.SampleRate, cfg.WindowSize, 1.0)
	}

	features := ext.Extract(w)
	require.Len(t, features, cfg.FeatureDim())

	// The attended frequency's fundamental must dominate the others.
	attended := features[2*cfg.Harmonics]
	for f := range cfg.Frequencies {
		if f == 2 {
			continue
		}
		assert.Greater(t, attended, features[f*cfg.Harmonics], "frequency %d", f)
	}
}
