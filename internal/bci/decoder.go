package bci

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Decision is a committed decoder output. Class indexes into the
// configured stimulus frequencies.
type Decision struct {
	Class      int
	Frequency  float64
	Confidence float64
	At         time.Time
}

// State is a snapshot of the decoder's per-window output, for
// on-screen feedback while the user is attending a target.
type State struct {
	Posterior []float64
	Candidate int
	Streak    int
	Windows   int
}

// Decoder turns a raw sample stream into discrete control decisions.
// A decision commits only after DwellCount consecutive windows agree
// on the same class with confidence at or above MinConfidence, which
// filters the window-to-window jitter of SSVEP classification.
type Decoder struct {
	cfg       Config
	extractor *FeatureExtractor
	model     *LDA

	mu        sync.Mutex
	state     State
	candidate int
	streak    int
}

// NewDecoder builds a decoder for a trained model. The model must
// match the configured feature layout.
func NewDecoder(cfg Config, model *LDA) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if model.Dim() != cfg.FeatureDim() {
		return nil, fmt.Errorf("model dimension %d does not match feature dimension %d", model.Dim(), cfg.FeatureDim())
	}
	if model.Classes() != cfg.NumClasses() {
		return nil, fmt.Errorf("model has %d classes, config has %d targets", model.Classes(), cfg.NumClasses())
	}
	return &Decoder{
		cfg:       cfg,
		extractor: NewFeatureExtractor(cfg),
		model:     model,
		candidate: -1,
	}, nil
}

// Run starts consuming src and emits committed decisions until ctx is
// cancelled or the source closes. The returned channel is closed on
// exit.
func (d *Decoder) Run(ctx context.Context, src Source) (<-chan Decision, error) {
	samples, err := src.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("start source: %w", err)
	}

	out := make(chan Decision, 4)
	go func() {
		defer close(out)
		buf := NewBuffer(d.cfg.Channels, d.cfg.WindowSize, d.cfg.WindowStep)
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-samples:
				if !ok {
					return
				}
				w, full := buf.Push(s)
				if !full {
					continue
				}
				if dec, ok := d.classify(w); ok {
					select {
					case out <- dec:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return out, nil
}

// classify scores one window and advances the dwell state. It returns
// a decision when the dwell requirement is met.
func (d *Decoder) classify(w Window) (Decision, bool) {
	features := d.extractor.Extract(w)
	scores, err := d.model.Scores(features)
	if err != nil {
		return Decision{}, false
	}
	post := Softmax(scores)

	best := 0
	for k := 1; k < len(post); k++ {
		if post[k] > post[best] {
			best = k
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.Windows++
	d.state.Posterior = post

	if post[best] < d.cfg.MinConfidence || best != d.candidate {
		d.candidate = best
		if post[best] >= d.cfg.MinConfidence {
			d.streak = 1
		} else {
			d.streak = 0
		}
		d.state.Candidate = d.candidate
		d.state.Streak = d.streak
		return Decision{}, false
	}

	d.streak++
	d.state.Candidate = d.candidate
	d.state.Streak = d.streak
	if d.streak < d.cfg.DwellCount {
		return Decision{}, false
	}

	// Committed. Require a fresh dwell for the next decision.
	d.streak = 0
	d.candidate = -1
	d.state.Streak = 0
	return Decision{
		Class:      best,
		Frequency:  d.cfg.Frequencies[best],
		Confidence: post[best],
		At:         w.End,
	}, true
}

// State returns the latest per-window decoder output.
func (d *Decoder) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.state
	if s.Posterior != nil {
		s.Posterior = append([]float64(nil), s.Posterior...)
	}
	return s
}
