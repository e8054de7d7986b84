package cli

import (
	"resumelens/internal/ai"
	"resumelens/internal/cache"
	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/prompt"
	"resumelens/internal/relevance"
	"resumelens/internal/safety"

	"golang.org/x/time/rate"
)

// newCache selects the configured cache backend. Redis misconfiguration
// falls back to the in-process cache so commands still run.
func newCache(cfg *config.Config, logger *errors.Logger) cache.Cache {
	if cfg.Cache.Backend == "redis" {
		if cfg.Cache.Redis.Address == "" {
			logger.Warn("Redis cache selected but no address configured, using in-memory cache")
			return cache.NewMemory()
		}
		return cache.NewRedis(cache.RedisConfig{
			Address:  cfg.Cache.Redis.Address,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return cache.NewMemory()
}

// newRateLimiter builds the client-side limiter shared across provider calls
func newRateLimiter(cfg *config.Config) *rate.Limiter {
	rl := cfg.AI.RateLimit
	if !rl.Enabled || rl.RequestsPerSecond <= 0 {
		return nil
	}
	burst := rl.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), burst)
}

// newTextProvider creates the Gemini text provider for one operation. A
// missing API key is not fatal: the pipelines run their fallback paths with
// a nil provider.
func newTextProvider(opCfg config.OperationAIConfig, operation string, limiter *rate.Limiter, logger *errors.Logger) ai.TextProvider {
	provider, err := ai.NewGeminiProvider(&opCfg, operation, limiter, logger)
	if err != nil {
		logger.Warn("AI provider unavailable, deterministic fallbacks will be used",
			"operation", operation,
			"error", err.Error())
		return nil
	}
	return provider
}

// newRelevanceEngine creates the embedding-backed relevance engine, or the
// keyword-only engine when no embedder can be built.
func newRelevanceEngine(cfg *config.Config, limiter *rate.Limiter, logger *errors.Logger) *relevance.Engine {
	embedCfg := cfg.GetEmbedConfig()
	embedder, err := ai.NewGeminiEmbedder(&embedCfg, limiter, logger)
	if err != nil {
		logger.Warn("Embedding provider unavailable, relevance will use keyword matching",
			"error", err.Error())
		return relevance.New(nil, logger)
	}
	return relevance.New(embedder, logger)
}

// newSafetyPipeline creates the safety pipeline, with moderation only when
// enabled and a moderation provider can be built.
func newSafetyPipeline(cfg *config.Config, prompts *prompt.Builder, limiter *rate.Limiter, logger *errors.Logger) *safety.Pipeline {
	if !cfg.AI.ModerationEnabled {
		return safety.NewPipeline(nil, logger)
	}

	provider := newTextProvider(cfg.GetModerateConfig(), "moderate", limiter, logger)
	if provider == nil {
		return safety.NewPipeline(nil, logger)
	}
	return safety.NewPipeline(ai.NewGeminiModerator(provider, prompts), logger)
}
