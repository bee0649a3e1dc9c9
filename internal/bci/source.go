package bci

import (
	"context"
	"time"
)

// Sample is one multi-channel EEG sample.
type Sample struct {
	Values []float64 // one value per channel, microvolts
	At     time.Time
}

// Source produces a stream of EEG samples. Start may only be called
// once; the returned channel is closed when the source ends or the
// context is cancelled.
type Source interface {
	Start(ctx context.Context) (<-chan Sample, error)
	Close() error
}

// Attendable is implemented by sources whose attended stimulus can be
// steered, i.e. the synthetic simulator. The calibrator uses it to run
// cued trials without a subject.
type Attendable interface {
	SetAttended(class int)
}
