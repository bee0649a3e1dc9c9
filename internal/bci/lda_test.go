package bci

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBlobs builds a separable two-class dataset around distinct means.
func twoBlobs(rng *rand.Rand, perClass int) ([][]float64, []int) {
	means := [][]float64{{0, 0, 0}, {4, 4, 4}}
	var X [][]float64
	var y []int
	for k, mu := range means {
		for i := 0; i < perClass; i++ {
			x := make([]float64, len(mu))
			for j := range x {
				x[j] = mu[j] + rng.NormFloat64()*0.5
			}
			X = append(X, x)
			y = append(y, k)
		}
	}
	return X, y
}

func TestLDASeparatesBlobs(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	X, y := twoBlobs(rng, 40)

	model, err := FitLDA(X, y, 2)
	require.NoError(t, err)

	correct := 0
	for i, x := range X {
		pred, conf, err := model.Predict(x)
		require.NoError(t, err)
		assert.Greater(t, conf, 0.5)
		if pred == y[i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, correct, len(X)-1)
}

func TestLDAFitErrors(t *testing.T) {
	tests := []struct {
		name    string
		X       [][]float64
		y       []int
		classes int
	}{
		{"empty", nil, nil, 2},
		{"mismatched lengths", [][]float64{{1}}, []int{0, 1}, 2},
		{"one class", [][]float64{{1}, {2}}, []int{0, 0}, 1},
		{"label out of range", [][]float64{{1}, {2}}, []int{0, 2}, 2},
		{"ragged features", [][]float64{{1, 2}, {3}}, []int{0, 1}, 2},
		{"class too small", [][]float64{{1}, {2}, {3}}, []int{0, 0, 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitLDA(tt.X, tt.y, tt.classes)
			assert.Error(t, err)
		})
	}
}

func TestLDAJSONRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	X, y := twoBlobs(rng, 20)

	model, err := FitLDA(X, y, 2)
	require.NoError(t, err)

	data, err := json.Marshal(model)
	require.NoError(t, err)

	var restored LDA
	require.NoError(t, json.Unmarshal(data, &restored))

	for _, x := range X {
		wantScores, err := model.Scores(x)
		require.NoError(t, err)
		gotScores, err := restored.Scores(x)
		require.NoError(t, err)
		assert.InDeltaSlice(t, wantScores, gotScores, 1e-12)
	}
}

func TestLDARejectsWrongDimension(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	X, y := twoBlobs(rng, 10)
	model, err := FitLDA(X, y, 2)
	require.NoError(t, err)

	_, _, err = model.Predict([]float64{1, 2})
	assert.Error(t, err)
}
