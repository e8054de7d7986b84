// Package relevance scores how semantically close a skill list is to the
// body of a resume. The primary path embeds skills and resume chunks in one
// batched provider call and compares them by cosine similarity; when the
// provider is missing or failing it degrades to literal keyword matching.
package relevance

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"resumelens/internal/ai"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Method names reported in RelevanceMetadata
const (
	MethodEmbedding = "embedding"
	MethodKeyword   = "keyword"
)

const topMatchCount = 3

// Engine computes skill relevance scores
type Engine struct {
	embedder ai.EmbeddingProvider
	logger   *errors.Logger
}

// New creates a relevance engine. A nil embedder is allowed and forces the
// keyword fallback path.
func New(embedder ai.EmbeddingProvider, logger *errors.Logger) *Engine {
	return &Engine{embedder: embedder, logger: logger}
}

// Score computes the 0-100 relevance of skills against the resume text,
// along with diagnostic metadata. It never fails: provider errors degrade to
// the keyword method.
func (e *Engine) Score(ctx context.Context, skills []string, resumeText string) (int, *types.RelevanceMetadata) {
	start := time.Now()

	if len(skills) == 0 {
		return 0, &types.RelevanceMetadata{
			Method:    MethodKeyword,
			ElapsedMS: time.Since(start).Milliseconds(),
		}
	}

	if e.embedder != nil {
		score, meta, err := e.scoreByEmbedding(ctx, skills, resumeText)
		if err == nil {
			meta.ElapsedMS = time.Since(start).Milliseconds()
			return score, meta
		}
		e.logger.Warn("Embedding relevance failed, falling back to keyword matching",
			"error", err.Error(),
			"skill_count", len(skills))
	}

	score, meta := e.scoreByKeyword(skills, resumeText)
	meta.ElapsedMS = time.Since(start).Milliseconds()
	return score, meta
}

// scoreByEmbedding batches skills and chunks into one embed call, takes the
// max cosine similarity per skill, and averages the mapped relevance across
// skills with at least one positive-similarity match. Skills with no
// positive match are excluded from the denominator rather than scored 0.
func (e *Engine) scoreByEmbedding(ctx context.Context, skills []string, resumeText string) (int, *types.RelevanceMetadata, error) {
	chunks := ChunkSentences(resumeText, maxChunkLen)
	if len(chunks) == 0 {
		return 0, nil, errors.NewValidationError(errors.ErrCodeTextTooShort,
			"No resume text to chunk for embedding", nil)
	}

	batch := make([]string, 0, len(skills)+len(chunks))
	batch = append(batch, skills...)
	batch = append(batch, chunks...)

	vectors, err := e.embedder.Embed(ctx, batch)
	if err != nil {
		return 0, nil, err
	}
	if len(vectors) != len(batch) {
		return 0, nil, errors.NewAIError(errors.ErrCodeAIResponseInvalid,
			"Embedding batch size mismatch", nil).WithKind(errors.KindMalformedOutput).
			WithContext("expected", len(batch)).
			WithContext("got", len(vectors))
	}

	skillVecs := vectors[:len(skills)]
	chunkVecs := vectors[len(skills):]

	var matches []types.SkillMatch
	var simSum float64
	var relevanceSum, matched int
	for i, sv := range skillVecs {
		best := -1.0
		for _, cv := range chunkVecs {
			if sim := Cosine(sv, cv); sim > best {
				best = sim
			}
		}
		if best <= 0 {
			continue
		}
		matched++
		simSum += best
		rel := SimilarityToRelevance(best)
		relevanceSum += rel
		matches = append(matches, types.SkillMatch{
			Skill:      skills[i],
			Similarity: best,
			Relevance:  rel,
		})
	}

	score := 0
	meanSim := 0.0
	if matched > 0 {
		score = int(math.Round(float64(relevanceSum) / float64(matched)))
		meanSim = simSum / float64(matched)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > topMatchCount {
		matches = matches[:topMatchCount]
	}

	return score, &types.RelevanceMetadata{
		Method:         MethodEmbedding,
		SkillCount:     len(skills),
		ChunkCount:     len(chunks),
		MatchedSkills:  matched,
		MeanSimilarity: meanSim,
		TopMatches:     matches,
	}, nil
}

// scoreByKeyword is the deterministic fallback: case-insensitive substring
// presence of each skill in the resume text.
func (e *Engine) scoreByKeyword(skills []string, resumeText string) (int, *types.RelevanceMetadata) {
	lower := strings.ToLower(resumeText)
	matched := 0
	var matches []types.SkillMatch
	for _, skill := range skills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			matched++
			if len(matches) < topMatchCount {
				matches = append(matches, types.SkillMatch{Skill: skill, Similarity: 1, Relevance: 100})
			}
		}
	}

	score := int(math.Round(float64(matched) / float64(len(skills)) * 100))
	return score, &types.RelevanceMetadata{
		Method:        MethodKeyword,
		SkillCount:    len(skills),
		MatchedSkills: matched,
		TopMatches:    matches,
	}
}
