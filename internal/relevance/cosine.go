package relevance

import "math"

// Cosine returns the cosine similarity of two vectors in [-1,1]. Mismatched
// lengths compare over the shorter prefix; zero vectors yield 0 instead of
// dividing by zero.
func Cosine(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SimilarityToRelevance maps a cosine similarity in [-1,1] onto the 0-100
// relevance scale.
func SimilarityToRelevance(sim float64) int {
	score := (sim + 1) * 50
	return int(math.Round(math.Min(math.Max(score, 0), 100)))
}
