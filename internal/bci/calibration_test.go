package bci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrationSyntheticAccuracy(t *testing.T) {
	cfg := testConfig()
	src := NewSyntheticSource(cfg, 7)

	cal := NewCalibrator(cfg)
	require.NoError(t, cal.CollectSynthetic(src, 16))
	assert.Equal(t, 16*cfg.NumClasses(), cal.Count())

	model, report, err := cal.Train(7)
	require.NoError(t, err)
	require.NotNil(t, model)

	// The synthetic flicker response is strong; holdout accuracy far
	// above the 20% chance level shows the pipeline works end to end.
	assert.Greater(t, report.Accuracy, 0.7)
	assert.Len(t, report.PerClass, cfg.NumClasses())
	assert.Equal(t, 16*cfg.NumClasses(), report.Samples)
}

func TestCalibratorNeedsEnoughWindows(t *testing.T) {
	cfg := testConfig()
	src := NewSyntheticSource(cfg, 9)

	cal := NewCalibrator(cfg)
	require.NoError(t, cal.CollectSynthetic(src, 2))

	_, _, err := cal.Train(9)
	assert.Error(t, err)
}

func TestCalibratorRejectsBadLabel(t *testing.T) {
	cfg := testConfig()
	cal := NewCalibrator(cfg)

	w := Window{Data: make([][]float64, cfg.Channels)}
	for ch := range w.Data {
		w.Data[ch] = make([]float64, cfg.WindowSize)
	}
	assert.Error(t, cal.AddWindow(w, cfg.NumClasses()))
	assert.Error(t, cal.AddWindow(w, -1))
}
