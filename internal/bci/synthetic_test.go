package bci

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticSourceStart(t *testing.T) {
	cfg := testConfig()
	src := NewSyntheticSource(cfg, 7)
	src.SetAttended(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	samples, err := src.Start(ctx)
	require.NoError(t, err)

	for i := 0; i < synthChunk; i++ {
		select {
		case s, ok := <-samples:
			require.True(t, ok, "stream closed after %d samples", i)
			assert.Len(t, s.Values, cfg.Channels)
			assert.False(t, s.At.IsZero())
		case <-ctx.Done():
			t.Fatal("no sample before timeout")
		}
	}

	require.NoError(t, src.Close())
	for range samples {
	}
}

func TestSyntheticSourceAttendedSignal(t *testing.T) {
	cfg := testConfig()
	src := NewSyntheticSource(cfg, 7)

	const attended = 2
	windows := src.GenerateWindows(attended, 6)
	require.Len(t, windows, 6)

	ext := NewFeatureExtractor(cfg)

	// Band power at the attended frequency should dominate the others
	// in most windows.
	wins := 0
	for _, w := range windows {
		feats := ext.Extract(w)
		best, bestPow := -1, 0.0
		for class := 0; class < cfg.NumClasses(); class++ {
			var p float64
			for h := 0; h < cfg.Harmonics; h++ {
				p += feats[class*cfg.Harmonics+h]
			}
			if best < 0 || p > bestPow {
				best, bestPow = class, p
			}
		}
		if best == attended {
			wins++
		}
	}
	assert.Greater(t, wins, 3)
}
