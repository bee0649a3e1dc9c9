package bci

import "time"

// Window is a fixed-length slice of the sample stream, one row per
// channel.
type Window struct {
	Data [][]float64 // [channel][sample]
	End  time.Time   // timestamp of the newest sample
}

// Buffer turns the incoming sample stream into overlapping analysis
// windows of size samples every step samples.
type Buffer struct {
	channels int
	size     int
	step     int
	data     [][]float64
	lastAt   time.Time
}

// NewBuffer creates a window buffer.
func NewBuffer(channels, size, step int) *Buffer {
	data := make([][]float64, channels)
	for i := range data {
		data[i] = make([]float64, 0, size+step)
	}
	return &Buffer{channels: channels, size: size, step: step, data: data}
}

// Push adds a sample. When enough samples have accumulated it returns
// the next window and true. Samples with the wrong channel count are
// dropped.
func (b *Buffer) Push(s Sample) (Window, bool) {
	if len(s.Values) != b.channels {
		return Window{}, false
	}
	for ch, v := range s.Values {
		b.data[ch] = append(b.data[ch], v)
	}
	b.lastAt = s.At

	if len(b.data[0]) < b.size {
		return Window{}, false
	}

	w := Window{
		Data: make([][]float64, b.channels),
		End:  b.lastAt,
	}
	for ch := range b.data {
		row := make([]float64, b.size)
		copy(row, b.data[ch][:b.size])
		w.Data[ch] = row
		// Advance by step, keeping the overlap.
		b.data[ch] = append(b.data[ch][:0], b.data[ch][b.step:]...)
	}
	return w, true
}

// Reset discards all buffered samples.
func (b *Buffer) Reset() {
	for i := range b.data {
		b.data[i] = b.data[i][:0]
	}
}
