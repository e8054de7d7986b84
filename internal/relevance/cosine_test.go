package relevance

import (
	"math"
	"testing"
)

func TestCosineSelfSimilarity(t *testing.T) {
	v := []float64{0.3, -0.7, 1.2, 0.01}
	if got := Cosine(v, v); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("self similarity should be 1, got %f", got)
	}
}

func TestCosineSymmetry(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-4, 0.5, 2}
	if Cosine(a, b) != Cosine(b, a) {
		t.Errorf("cosine must be symmetric: %f vs %f", Cosine(a, b), Cosine(b, a))
	}
}

func TestCosineBounds(t *testing.T) {
	vectors := [][]float64{
		{1, 0}, {0, 1}, {-1, 0}, {0.5, -0.5}, {100, 200},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			got := Cosine(a, b)
			if got < -1.0000001 || got > 1.0000001 {
				t.Errorf("Cosine(%v, %v) = %f out of [-1,1]", a, b, got)
			}
		}
	}
}

func TestCosineOpposite(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{-1, -2}
	if got := Cosine(a, b); math.Abs(got+1.0) > 1e-9 {
		t.Errorf("opposite vectors should give -1, got %f", got)
	}
}

func TestCosineZeroVector(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"zero first", []float64{0, 0, 0}, []float64{1, 2, 3}},
		{"zero second", []float64{1, 2, 3}, []float64{0, 0, 0}},
		{"both zero", []float64{0, 0}, []float64{0, 0}},
		{"both empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); got != 0 {
				t.Errorf("expected 0 for zero/empty vectors, got %f", got)
			}
		})
	}
}

func TestSimilarityToRelevance(t *testing.T) {
	tests := []struct {
		sim  float64
		want int
	}{
		{1, 100},
		{0, 50},
		{-1, 0},
		{0.5, 75},
		{-0.5, 25},
	}
	for _, tt := range tests {
		if got := SimilarityToRelevance(tt.sim); got != tt.want {
			t.Errorf("SimilarityToRelevance(%f) = %d, want %d", tt.sim, got, tt.want)
		}
	}
}
