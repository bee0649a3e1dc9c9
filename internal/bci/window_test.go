package bci

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSlidingWindows(t *testing.T) {
	buf := NewBuffer(2, 4, 2)
	base := time.Now()

	var windows []Window
	for i := 0; i < 10; i++ {
		s := Sample{
			Values: []float64{float64(i), float64(-i)},
			At:     base.Add(time.Duration(i) * 4 * time.Millisecond),
		}
		if w, full := buf.Push(s); full {
			windows = append(windows, w)
		}
	}

	// First window after 4 samples, then one every 2.
	require.Len(t, windows, 4)
	assert.Equal(t, []float64{0, 1, 2, 3}, windows[0].Data[0])
	assert.Equal(t, []float64{2, 3, 4, 5}, windows[1].Data[0])
	assert.Equal(t, []float64{-4, -5, -6, -7}, windows[2].Data[1])
	assert.Equal(t, base.Add(9*4*time.Millisecond), windows[3].End)
}

func TestBufferDropsWrongChannelCount(t *testing.T) {
	buf := NewBuffer(2, 2, 1)

	_, full := buf.Push(Sample{Values: []float64{1, 2, 3}})
	assert.False(t, full)

	buf.Push(Sample{Values: []float64{1, 2}})
	_, full = buf.Push(Sample{Values: []float64{3, 4}})
	assert.True(t, full)
}

func TestBufferReset(t *testing.T) {
	buf := NewBuffer(1, 2, 1)
	buf.Push(Sample{Values: []float64{1}})
	buf.Reset()

	_, full := buf.Push(Sample{Values: []float64{2}})
	assert.False(t, full)
	w, full := buf.Push(Sample{Values: []float64{3}})
	require.True(t, full)
	assert.Equal(t, []float64{2, 3}, w.Data[0])
}

func TestWindowDataIsStable(t *testing.T) {
	buf := NewBuffer(1, 2, 1)
	buf.Push(Sample{Values: []float64{1}})
	w1, _ := buf.Push(Sample{Values: []float64{2}})
	w2, _ := buf.Push(Sample{Values: []float64{3}})

	// Later pushes must not mutate an already emitted window.
	assert.Equal(t, []float64{1, 2}, w1.Data[0])
	assert.Equal(t, []float64{2, 3}, w2.Data[0])
}
