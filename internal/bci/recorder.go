package bci

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Recorder writes raw samples to a CSV file for later replay. Raw EEG
// never leaves the machine unless the user turns recording on, so the
// recorder is only constructed when that preference is set.
type Recorder struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	record []string
	closed bool
}

// NewRecorder creates path and writes the header row. Channel columns
// are named ch0..chN-1.
func NewRecorder(path string, channels int) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	w := csv.NewWriter(f)

	header := make([]string, channels+1)
	header[0] = "unix_ms"
	for i := 0; i < channels; i++ {
		header[i+1] = "ch" + strconv.Itoa(i)
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write recording header: %w", err)
	}

	return &Recorder{
		file:   f,
		writer: w,
		record: make([]string, channels+1),
	}, nil
}

// Write appends one sample.
func (r *Recorder) Write(s Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("recorder closed")
	}
	if len(s.Values) != len(r.record)-1 {
		return fmt.Errorf("sample has %d channels, want %d", len(s.Values), len(r.record)-1)
	}
	r.record[0] = strconv.FormatInt(s.At.UnixMilli(), 10)
	for i, v := range s.Values {
		r.record[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return r.writer.Write(r.record)
}

// Close flushes and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		r.file.Close()
		return fmt.Errorf("flush recording: %w", err)
	}
	return r.file.Close()
}

// Tee wraps a source so every sample passing through is also written
// to the recorder. Recorder errors stop recording but not the stream.
type Tee struct {
	Source
	rec *Recorder
}

// NewTee wraps src with recording to rec.
func NewTee(src Source, rec *Recorder) *Tee {
	return &Tee{Source: src, rec: rec}
}

// Start implements Source.
func (t *Tee) Start(ctx context.Context) (<-chan Sample, error) {
	in, err := t.Source.Start(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan Sample, cap(in))
	go func() {
		defer close(out)
		recording := true
		for s := range in {
			if recording {
				if err := t.rec.Write(s); err != nil {
					recording = false
				}
			}
			select {
			case out <- s:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close implements Source.
func (t *Tee) Close() error {
	err := t.Source.Close()
	if cerr := t.rec.Close(); err == nil {
		err = cerr
	}
	return err
}
