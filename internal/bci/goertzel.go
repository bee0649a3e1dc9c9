package bci

import "math"

// GoertzelPower computes the normalized signal power at a single
// frequency. The Goertzel recurrence evaluates one DFT bin directly,
// which is all SSVEP detection needs: the handful of stimulus
// frequencies rather than a full spectrum.
func GoertzelPower(samples []float64, sampleRate, freq float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}

	w := 2 * math.Pi * freq / sampleRate
	coeff := 2 * math.Cos(w)

	var s1, s2 float64
	for _, x := range samples {
		s0 := x + coeff*s1 - s2
		s2, s1 = s1, s0
	}

	power := s1*s1 + s2*s2 - coeff*s1*s2
	// Normalize so power does not grow with window length. A pure
	// sinusoid of amplitude A yields ~A^2/4 regardless of n.
	return power / (float64(n) * float64(n))
}

// detrend removes the mean so DC offset does not leak into the low
// stimulus bins.
func detrend(samples []float64) []float64 {
	var mean float64
	for _, x := range samples {
		mean += x
	}
	mean /= float64(len(samples))

	out := make([]float64, len(samples))
	for i, x := range samples {
		out[i] = x - mean
	}
	return out
}
