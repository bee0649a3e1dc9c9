package bci

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderReplayRoundTrip(t *testing.T) {
	cfg := testConfig()
	path := filepath.Join(t.TempDir(), "session.csv")

	rec, err := NewRecorder(path, cfg.Channels)
	require.NoError(t, err)

	base := time.UnixMilli(1_700_000_000_000)
	want := make([]Sample, 20)
	for i := range want {
		values := make([]float64, cfg.Channels)
		for ch := range values {
			values[ch] = float64(i*10 + ch)
		}
		want[i] = Sample{Values: values, At: base.Add(time.Duration(i) * 4 * time.Millisecond)}
		require.NoError(t, rec.Write(want[i]))
	}
	require.NoError(t, rec.Close())

	src := NewReplaySource(cfg, path, false)
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	samples, err := src.Start(ctx)
	require.NoError(t, err)

	var got []Sample
	for s := range samples {
		got = append(got, s)
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Values, got[i].Values)
		assert.Equal(t, want[i].At.UnixMilli(), got[i].At.UnixMilli())
	}
}

func TestRecorderRejectsWrongChannelCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	rec, err := NewRecorder(path, 4)
	require.NoError(t, err)
	defer rec.Close()

	err = rec.Write(Sample{Values: []float64{1, 2}})
	assert.Error(t, err)
}

func TestReplayMissingFile(t *testing.T) {
	src := NewReplaySource(testConfig(), filepath.Join(t.TempDir(), "nope.csv"), false)
	_, err := src.Start(context.Background())
	assert.Error(t, err)
}
