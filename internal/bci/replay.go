package bci

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"
)

// ReplaySource plays back a recorded session from a CSV file written
// by Recorder. The first column is the sample time in Unix
// milliseconds, the rest are channel values.
type ReplaySource struct {
	path     string
	channels int
	rate     float64
	realtime bool

	closeOnce sync.Once
	done      chan struct{}
}

// NewReplaySource opens path for playback at the configured rate.
// With realtime set, samples are paced as in the original session,
// otherwise they are emitted as fast as the consumer drains them.
func NewReplaySource(cfg Config, path string, realtime bool) *ReplaySource {
	return &ReplaySource{
		path:     path,
		channels: cfg.Channels,
		rate:     cfg.SampleRate,
		realtime: realtime,
		done:     make(chan struct{}),
	}
}

// Start implements Source.
func (r *ReplaySource) Start(ctx context.Context) (<-chan Sample, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = r.channels + 1

	// Skip the header row if present.
	first, err := reader.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read recording: %w", err)
	}
	var pending []Sample
	if s, ok := r.parse(first); ok {
		pending = append(pending, s)
	}

	out := make(chan Sample, int(r.rate))
	go func() {
		defer close(out)
		defer f.Close()

		interval := time.Duration(float64(time.Second) / r.rate)
		emit := func(s Sample) bool {
			if r.realtime {
				select {
				case <-time.After(interval):
				case <-ctx.Done():
					return false
				case <-r.done:
					return false
				}
			}
			select {
			case out <- s:
				return true
			case <-ctx.Done():
				return false
			case <-r.done:
				return false
			}
		}

		for _, s := range pending {
			if !emit(s) {
				return
			}
		}
		for {
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				return
			}
			s, ok := r.parse(record)
			if !ok {
				continue
			}
			if !emit(s) {
				return
			}
		}
	}()
	return out, nil
}

// Close implements Source.
func (r *ReplaySource) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}

// parse converts one CSV record into a sample. Non-numeric rows, such
// as the header, are skipped.
func (r *ReplaySource) parse(record []string) (Sample, bool) {
	ms, err := strconv.ParseFloat(record[0], 64)
	if err != nil {
		return Sample{}, false
	}
	values := make([]float64, r.channels)
	for i := 0; i < r.channels; i++ {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return Sample{}, false
		}
		values[i] = v
	}
	return Sample{Values: values, At: time.UnixMilli(int64(ms))}, true
}
