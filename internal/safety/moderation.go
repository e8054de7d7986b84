package safety

import (
	"context"

	"resumelens/internal/ai"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Moderate classifies text through the configured moderation provider. A nil
// provider skips moderation and assumes the text safe; a provider failure is
// logged and also degrades to the skipped verdict so generation is never
// blocked on the classifier.
func Moderate(ctx context.Context, provider ai.ModerationProvider, logger *errors.Logger, text string) types.ModerationResult {
	if provider == nil {
		return types.ModerationResult{Skipped: true}
	}

	result, err := provider.Classify(ctx, text)
	if err != nil {
		if logger != nil {
			logger.Warn("Moderation classification failed, assuming safe",
				"error", err.Error())
		}
		return types.ModerationResult{Skipped: true}
	}
	return result
}
