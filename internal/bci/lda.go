package bci

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// shrinkage regularizes the pooled covariance toward a scaled identity.
// Calibration sessions are short, so the sample covariance is noisy.
const shrinkage = 0.1

// LDA is a multi-class linear discriminant classifier over SSVEP
// band-power features, the classification method named by the project
// proposal.
type LDA struct {
	dim     int
	classes int
	weights *mat.Dense // classes x dim
	biases  []float64
}

// FitLDA trains a classifier from feature vectors X with class labels
// y in [0, classes).
func FitLDA(X [][]float64, y []int, classes int) (*LDA, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("need matching features and labels, got %d and %d", len(X), len(y))
	}
	if classes < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", classes)
	}

	n := len(X)
	dim := len(X[0])
	counts := make([]int, classes)

	for i, x := range X {
		if len(x) != dim {
			return nil, fmt.Errorf("feature %d has dimension %d, want %d", i, len(x), dim)
		}
		if y[i] < 0 || y[i] >= classes {
			return nil, fmt.Errorf("label %d out of range [0, %d)", y[i], classes)
		}
		counts[y[i]]++
	}
	for k, c := range counts {
		if c < 2 {
			return nil, fmt.Errorf("class %d has %d samples, need at least 2", k, c)
		}
	}

	// Class means.
	means := mat.NewDense(classes, dim, nil)
	for i, x := range X {
		for j, v := range x {
			means.Set(y[i], j, means.At(y[i], j)+v)
		}
	}
	for k := 0; k < classes; k++ {
		for j := 0; j < dim; j++ {
			means.Set(k, j, means.At(k, j)/float64(counts[k]))
		}
	}

	// Pooled within-class covariance.
	cov := mat.NewDense(dim, dim, nil)
	diff := make([]float64, dim)
	for i, x := range X {
		k := y[i]
		for j := range diff {
			diff[j] = x[j] - means.At(k, j)
		}
		for a := 0; a < dim; a++ {
			for b := a; b < dim; b++ {
				v := cov.At(a, b) + diff[a]*diff[b]
				cov.Set(a, b, v)
				cov.Set(b, a, v)
			}
		}
	}
	cov.Scale(1/float64(n-classes), cov)

	// Shrink toward the scaled identity so the inverse exists even
	// with few samples.
	avgVar := mat.Trace(cov) / float64(dim)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			v := (1 - shrinkage) * cov.At(a, b)
			if a == b {
				v += shrinkage * avgVar
			}
			cov.Set(a, b, v)
		}
	}

	var covInv mat.Dense
	if err := covInv.Inverse(cov); err != nil {
		return nil, fmt.Errorf("covariance not invertible: %w", err)
	}

	// Linear discriminants: w_k = S^-1 mu_k, b_k = -mu_k' w_k / 2 + ln p_k.
	weights := mat.NewDense(classes, dim, nil)
	biases := make([]float64, classes)
	for k := 0; k < classes; k++ {
		mu := mat.NewVecDense(dim, mat.Row(nil, k, means))
		var wk mat.VecDense
		wk.MulVec(&covInv, mu)
		weights.SetRow(k, wk.RawVector().Data)
		biases[k] = -0.5*mat.Dot(mu, &wk) + math.Log(float64(counts[k])/float64(n))
	}

	return &LDA{dim: dim, classes: classes, weights: weights, biases: biases}, nil
}

// Dim returns the expected feature vector length.
func (l *LDA) Dim() int { return l.dim }

// Classes returns the number of classes.
func (l *LDA) Classes() int { return l.classes }

// Scores returns the discriminant value for each class.
func (l *LDA) Scores(x []float64) ([]float64, error) {
	if len(x) != l.dim {
		return nil, fmt.Errorf("feature dimension %d, want %d", len(x), l.dim)
	}
	scores := make([]float64, l.classes)
	for k := 0; k < l.classes; k++ {
		s := l.biases[k]
		for j, v := range x {
			s += l.weights.At(k, j) * v
		}
		scores[k] = s
	}
	return scores, nil
}

// Predict returns the most likely class and its softmax posterior.
func (l *LDA) Predict(x []float64) (int, float64, error) {
	scores, err := l.Scores(x)
	if err != nil {
		return 0, 0, err
	}
	post := Softmax(scores)

	best := 0
	for k := 1; k < l.classes; k++ {
		if post[k] > post[best] {
			best = k
		}
	}
	return best, post[best], nil
}

// Softmax converts discriminant scores into a probability distribution.
func Softmax(scores []float64) []float64 {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// ldaJSON is the serialized form of a trained model.
type ldaJSON struct {
	Dim     int         `json:"dim"`
	Classes int         `json:"classes"`
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

// MarshalJSON implements json.Marshaler.
func (l *LDA) MarshalJSON() ([]byte, error) {
	w := make([][]float64, l.classes)
	for k := 0; k < l.classes; k++ {
		w[k] = mat.Row(nil, k, l.weights)
	}
	return json.Marshal(ldaJSON{Dim: l.dim, Classes: l.classes, Weights: w, Biases: l.biases})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LDA) UnmarshalJSON(data []byte) error {
	var m ldaJSON
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m.Dim <= 0 || m.Classes < 2 || len(m.Weights) != m.Classes || len(m.Biases) != m.Classes {
		return fmt.Errorf("malformed LDA model")
	}
	weights := mat.NewDense(m.Classes, m.Dim, nil)
	for k, row := range m.Weights {
		if len(row) != m.Dim {
			return fmt.Errorf("malformed LDA model: row %d has %d weights, want %d", k, len(row), m.Dim)
		}
		weights.SetRow(k, row)
	}
	l.dim = m.Dim
	l.classes = m.Classes
	l.weights = weights
	l.biases = m.Biases
	return nil
}
