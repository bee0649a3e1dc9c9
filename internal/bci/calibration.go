package bci

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// CalibrationReport summarizes held-out accuracy after training.
type CalibrationReport struct {
	Accuracy float64   `json:"accuracy"`
	PerClass []float64 `json:"per_class"`
	Samples  int       `json:"samples"`
	Trained  time.Time `json:"trained"`
}

// Calibrator collects labeled feature windows and trains a per-user
// model. During calibration the UI cues one target at a time while the
// source carries the corresponding flicker response.
type Calibrator struct {
	cfg       Config
	extractor *FeatureExtractor

	features [][]float64
	labels   []int
}

// NewCalibrator prepares an empty calibration session.
func NewCalibrator(cfg Config) *Calibrator {
	return &Calibrator{cfg: cfg, extractor: NewFeatureExtractor(cfg)}
}

// AddWindow records one labeled window.
func (c *Calibrator) AddWindow(w Window, class int) error {
	if class < 0 || class >= c.cfg.NumClasses() {
		return fmt.Errorf("class %d out of range [0, %d)", class, c.cfg.NumClasses())
	}
	c.features = append(c.features, c.extractor.Extract(w))
	c.labels = append(c.labels, class)
	return nil
}

// Count returns the number of collected windows.
func (c *Calibrator) Count() int { return len(c.features) }

// Train fits a model on the collected windows and reports accuracy on
// a random 25% holdout. The returned model is trained on the full set.
func (c *Calibrator) Train(seed uint64) (*LDA, CalibrationReport, error) {
	classes := c.cfg.NumClasses()
	if len(c.features) < classes*4 {
		return nil, CalibrationReport{}, fmt.Errorf("need at least %d windows, have %d", classes*4, len(c.features))
	}

	rng := rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
	perm := rng.Perm(len(c.features))
	holdout := len(perm) / 4

	trainX := make([][]float64, 0, len(perm)-holdout)
	trainY := make([]int, 0, len(perm)-holdout)
	testX := make([][]float64, 0, holdout)
	testY := make([]int, 0, holdout)
	for i, idx := range perm {
		if i < holdout {
			testX = append(testX, c.features[idx])
			testY = append(testY, c.labels[idx])
		} else {
			trainX = append(trainX, c.features[idx])
			trainY = append(trainY, c.labels[idx])
		}
	}

	report := CalibrationReport{
		PerClass: make([]float64, classes),
		Samples:  len(c.features),
		Trained:  time.Now(),
	}

	held, err := FitLDA(trainX, trainY, classes)
	if err != nil {
		return nil, report, fmt.Errorf("fit holdout model: %w", err)
	}
	correct := 0
	classTotal := make([]int, classes)
	classCorrect := make([]int, classes)
	for i, x := range testX {
		pred, _, err := held.Predict(x)
		if err != nil {
			return nil, report, err
		}
		classTotal[testY[i]]++
		if pred == testY[i] {
			correct++
			classCorrect[testY[i]]++
		}
	}
	if len(testX) > 0 {
		report.Accuracy = float64(correct) / float64(len(testX))
	}
	for k := 0; k < classes; k++ {
		if classTotal[k] > 0 {
			report.PerClass[k] = float64(classCorrect[k]) / float64(classTotal[k])
		}
	}

	model, err := FitLDA(c.features, c.labels, classes)
	if err != nil {
		return nil, report, fmt.Errorf("fit final model: %w", err)
	}
	return model, report, nil
}

// CollectSynthetic runs a full simulated calibration session: per
// class, generate windowsPerClass labeled windows from src.
func (c *Calibrator) CollectSynthetic(src *SyntheticSource, windowsPerClass int) error {
	for class := 0; class < c.cfg.NumClasses(); class++ {
		for _, w := range src.GenerateWindows(class, windowsPerClass) {
			if err := c.AddWindow(w, class); err != nil {
				return err
			}
		}
	}
	return nil
}
