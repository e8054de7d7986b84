package ai

import (
	"context"

	"resumelens/internal/types"
)

// GenerateOptions constrains one text generation call
type GenerateOptions struct {
	Temperature     *float32
	MaxOutputTokens int32
	// JSONResponse asks the provider for a structured JSON reply
	JSONResponse bool
}

// GenerateResult carries the generated text and reported token usage
type GenerateResult struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// TextProvider is the generative-text port. Implementations must classify
// failures through the errors package kinds so callers can discriminate
// retryable, fallback-triggering and fatal conditions.
type TextProvider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (GenerateResult, error)
	Close() error
}

// EmbeddingProvider is the batched embedding port. Output order matches
// input order; an empty input yields an empty output without error.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// ModerationProvider is the optional content moderation port
type ModerationProvider interface {
	Classify(ctx context.Context, text string) (types.ModerationResult, error)
}
