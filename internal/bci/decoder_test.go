package bci

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig is small enough to keep synthetic tests fast.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Channels = 4
	cfg.WindowSize = 250
	cfg.WindowStep = 125
	return cfg
}

// trainedModel fits a model on synthetic data for decoder tests.
func trainedModel(t *testing.T, cfg Config) *LDA {
	t.Helper()
	src := NewSyntheticSource(cfg, 99)
	cal := NewCalibrator(cfg)
	require.NoError(t, cal.CollectSynthetic(src, 12))
	model, _, err := cal.Train(99)
	require.NoError(t, err)
	return model
}

func TestDecoderDwellCommit(t *testing.T) {
	cfg := testConfig()
	model := trainedModel(t, cfg)

	dec, err := NewDecoder(cfg, model)
	require.NoError(t, err)

	src := NewSyntheticSource(cfg, 17)
	src.SetAttended(3)

	const attended = 3
	windows := src.GenerateWindows(attended, cfg.DwellCount + 2)

	var committed []Decision
	for _, w := range windows {
		if d, ok := dec.classify(w); ok {
			committed = append(committed, d)
		}
	}

	require.NotEmpty(t, committed)
	assert.Equal(t, attended, committed[0].Class)
	assert.Equal(t, cfg.Frequencies[attended], committed[0].Frequency)
	assert.GreaterOrEqual(t, committed[0].Confidence, cfg.MinConfidence)
}

func TestDecoderRequiresFreshDwellAfterCommit(t *testing.T) {
	cfg := testConfig()
	model := trainedModel(t, cfg)

	dec, err := NewDecoder(cfg, model)
	require.NoError(t, err)

	src := NewSyntheticSource(cfg, 23)
	windows := src.GenerateWindows(1, cfg.DwellCount*3)

	var committed int
	for _, w := range windows {
		if _, ok := dec.classify(w); ok {
			committed++
		}
	}
	// 3x the dwell length can commit at most 3 times.
	assert.LessOrEqual(t, committed, 3)
	assert.GreaterOrEqual(t, committed, 1)
}

func TestDecoderRunEmitsDecisions(t *testing.T) {
	cfg := testConfig()
	cfg.DwellCount = 2
	model := trainedModel(t, cfg)

	dec, err := NewDecoder(cfg, model)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	src := NewSyntheticSource(cfg, 41)
	src.SetAttended(0)
	defer src.Close()

	decisions, err := dec.Run(ctx, src)
	require.NoError(t, err)

	select {
	case d, ok := <-decisions:
		require.True(t, ok, "stream closed before a decision")
		assert.Equal(t, 0, d.Class)
	case <-ctx.Done():
		t.Fatal("no decision before timeout")
	}
}

func TestDecoderStateTracksWindows(t *testing.T) {
	cfg := testConfig()
	model := trainedModel(t, cfg)

	dec, err := NewDecoder(cfg, model)
	require.NoError(t, err)

	src := NewSyntheticSource(cfg, 55)
	for _, w := range src.GenerateWindows(2, 4) {
		dec.classify(w)
	}

	state := dec.State()
	assert.Equal(t, 4, state.Windows)
	require.Len(t, state.Posterior, cfg.NumClasses())

	var sum float64
	for _, p := range state.Posterior {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestNewDecoderRejectsMismatchedModel(t *testing.T) {
	cfg := testConfig()
	other := cfg
	other.Harmonics = 1
	model := trainedModel(t, other)

	_, err := NewDecoder(cfg, model)
	assert.Error(t, err)
}
