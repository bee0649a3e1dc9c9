package bci

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// SyntheticSource generates EEG-like samples containing the flicker
// response of the currently attended target: a sinusoid at the target
// frequency plus a weaker second harmonic, buried in noise and a
// background alpha rhythm. It stands in for an amplifier during
// development and drives the on-screen simulator mode.
type SyntheticSource struct {
	cfg Config
	rng *rand.Rand

	mu       sync.Mutex
	attended int

	closeOnce sync.Once
	done      chan struct{}
}

// Signal shape constants, tuned so a classifier trained on this source
// separates the targets reliably without being trivial.
const (
	synthSignalAmp   = 1.2
	synthHarmonicAmp = 0.5
	synthAlphaAmp    = 0.8
	synthNoiseAmp    = 1.5
	synthChunk       = 25
)

// NewSyntheticSource creates a source attending no target. Seed fixes
// the noise stream for reproducible tests and calibration runs.
func NewSyntheticSource(cfg Config, seed uint64) *SyntheticSource {
	return &SyntheticSource{
		cfg:      cfg,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		attended: -1,
		done:     make(chan struct{}),
	}
}

// SetAttended changes which target the simulated user is looking at.
// A negative class means no target, noise only.
func (s *SyntheticSource) SetAttended(class int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if class >= len(s.cfg.Frequencies) {
		class = -1
	}
	s.attended = class
}

// Start implements Source. Samples are emitted in real time, in
// chunks, at the configured sample rate.
func (s *SyntheticSource) Start(ctx context.Context) (<-chan Sample, error) {
	out := make(chan Sample, int(s.cfg.SampleRate))
	interval := time.Duration(float64(synthChunk) / s.cfg.SampleRate * float64(time.Second))

	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var n int
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case now := <-ticker.C:
				for i := 0; i < synthChunk; i++ {
					sample := s.generate(n)
					n++
					at := now.Add(time.Duration(float64(i-synthChunk) / s.cfg.SampleRate * float64(time.Second)))
					select {
					case out <- Sample{Values: sample, At: at}:
					case <-ctx.Done():
						return
					case <-s.done:
						return
					}
				}
			}
		}
	}()
	return out, nil
}

// Close implements Source.
func (s *SyntheticSource) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// generate produces one multi-channel sample at sample index n.
func (s *SyntheticSource) generate(n int) []float64 {
	s.mu.Lock()
	attended := s.attended
	s.mu.Unlock()

	t := float64(n) / s.cfg.SampleRate
	values := make([]float64, s.cfg.Channels)

	var ssvep float64
	if attended >= 0 {
		f := s.cfg.Frequencies[attended]
		ssvep = synthSignalAmp*math.Sin(2*math.Pi*f*t) +
			synthHarmonicAmp*math.Sin(2*math.Pi*2*f*t)
	}
	alpha := synthAlphaAmp * math.Sin(2*math.Pi*10.2*t+1.3)

	for ch := range values {
		// Occipital channels carry the visual response most strongly.
		gain := 1.0 - 0.08*float64(ch)
		values[ch] = gain*ssvep + alpha + synthNoiseAmp*s.rng.NormFloat64()
	}
	return values
}

// GenerateWindows produces count feature windows of the attended
// class without real-time pacing, for calibration and tests.
func (s *SyntheticSource) GenerateWindows(class, count int) []Window {
	s.SetAttended(class)
	windows := make([]Window, 0, count)
	buf := NewBuffer(s.cfg.Channels, s.cfg.WindowSize, s.cfg.WindowStep)
	var n int
	base := time.Now()
	for len(windows) < count {
		at := base.Add(time.Duration(float64(n) / s.cfg.SampleRate * float64(time.Second)))
		w, full := buf.Push(Sample{Values: s.generate(n), At: at})
		n++
		if full {
			windows = append(windows, w)
		}
	}
	return windows
}
