package bci

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

// streamFrame is the wire format for one sample from an acquisition
// bridge: newline-delimited JSON over TCP.
type streamFrame struct {
	UnixMs int64     `json:"unix_ms"`
	Values []float64 `json:"values"`
}

// StreamSource reads samples from a TCP acquisition bridge, the
// integration point for real amplifier software running out of
// process.
type StreamSource struct {
	addr     string
	channels int

	mu        sync.Mutex
	conn      net.Conn
	closeOnce sync.Once
	done      chan struct{}
}

// NewStreamSource connects to addr when started.
func NewStreamSource(cfg Config, addr string) *StreamSource {
	return &StreamSource{
		addr:     addr,
		channels: cfg.Channels,
		done:     make(chan struct{}),
	}
}

// Start implements Source. Frames with the wrong channel count are
// dropped rather than failing the stream.
func (s *StreamSource) Start(ctx context.Context) (<-chan Sample, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("connect to acquisition bridge %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	out := make(chan Sample, 256)
	go func() {
		defer close(out)
		defer conn.Close()

		scanner := bufio.NewScanner(conn)
		scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
		for scanner.Scan() {
			var frame streamFrame
			if err := json.Unmarshal(scanner.Bytes(), &frame); err != nil {
				continue
			}
			if len(frame.Values) != s.channels {
				continue
			}
			sample := Sample{Values: frame.Values, At: time.UnixMilli(frame.UnixMs)}
			select {
			case out <- sample:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}()
	return out, nil
}

// Close implements Source.
func (s *StreamSource) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
