package bci

import "math"

// FeatureExtractor turns an analysis window into the feature vector
// the classifier consumes: band power at every stimulus frequency and
// its harmonics, averaged over channels and log-scaled.
type FeatureExtractor struct {
	cfg Config
}

// NewFeatureExtractor creates an extractor for the given configuration.
func NewFeatureExtractor(cfg Config) *FeatureExtractor {
	return &FeatureExtractor{cfg: cfg}
}

// Extract computes the feature vector for a window. The vector layout
// is [f0 h1, f0 h2, ..., f1 h1, ...] with length cfg.FeatureDim().
func (fe *FeatureExtractor) Extract(w Window) []float64 {
	features := make([]float64, 0, fe.cfg.FeatureDim())

	for _, freq := range fe.cfg.Frequencies {
		for h := 1; h <= fe.cfg.Harmonics; h++ {
			var power float64
			for _, channel := range w.Data {
				power += GoertzelPower(detrend(channel), fe.cfg.SampleRate, freq*float64(h))
			}
			power /= float64(len(w.Data))
			// Log-scale: EEG band power is heavy-tailed and LDA
			// assumes roughly Gaussian features.
			features = append(features, math.Log(power+1e-12))
		}
	}
	return features
}
