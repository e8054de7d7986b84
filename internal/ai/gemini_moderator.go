package ai

import (
	"context"

	"resumelens/internal/prompt"
	"resumelens/internal/schema"
	"resumelens/internal/types"
)

// GeminiModerator implements ModerationProvider by asking a text model to
// classify content. It rides on a TextProvider so it shares the retry,
// breaker, and rate limiting machinery.
type GeminiModerator struct {
	provider TextProvider
	prompts  *prompt.Builder
}

var _ ModerationProvider = (*GeminiModerator)(nil)

// NewGeminiModerator wraps a text provider as a moderation classifier
func NewGeminiModerator(provider TextProvider, prompts *prompt.Builder) *GeminiModerator {
	return &GeminiModerator{provider: provider, prompts: prompts}
}

// Classify implements ModerationProvider
func (m *GeminiModerator) Classify(ctx context.Context, text string) (types.ModerationResult, error) {
	systemPrompt, userPrompt := m.prompts.BuildModeration(text)

	zero := float32(0)
	result, err := m.provider.Generate(ctx, systemPrompt, userPrompt, GenerateOptions{
		Temperature:  &zero,
		JSONResponse: true,
	})
	if err != nil {
		return types.ModerationResult{}, err
	}

	return schema.ParseModeration(result.Text)
}
