// Package generation produces cover letters: input truncation against a
// token budget, content-hash caching, prompt build, provider call under
// exponential-backoff retry, cost accounting, and a post-generation safety
// pass. Provider unavailability degrades to a static template instead of an
// error.
package generation

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"strings"
	"time"

	"resumelens/internal/ai"
	"resumelens/internal/cache"
	"resumelens/internal/common"
	"resumelens/internal/config"
	apperrors "resumelens/internal/errors"
	"resumelens/internal/prompt"
	"resumelens/internal/safety"
	"resumelens/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	cacheNamespace = "generation"
	// charsPerToken is the rough prompt-size estimate used for budgeting
	charsPerToken = 4
	maxBackoff    = 30 * time.Second
)

// Config wires a Pipeline. Provider may be nil, which forces the static
// fallback letter on every call.
type Config struct {
	Provider       ai.TextProvider
	Prompts        *prompt.Builder
	Cache          cache.Cache
	Safety         *safety.Pipeline
	Limits         config.LimitsConfig
	Cost           config.CostConfig
	CacheTTL       time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	Logger         *apperrors.Logger
}

// Pipeline generates cover letters. Safe for concurrent use.
type Pipeline struct {
	provider       ai.TextProvider
	prompts        *prompt.Builder
	cache          cache.Cache
	safety         *safety.Pipeline
	limits         config.LimitsConfig
	cost           config.CostConfig
	cacheTTL       time.Duration
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *apperrors.Logger
}

// New creates a generation pipeline
func New(cfg Config) *Pipeline {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 5 * time.Second
	}
	return &Pipeline{
		provider:       cfg.Provider,
		prompts:        cfg.Prompts,
		cache:          cfg.Cache,
		safety:         cfg.Safety,
		limits:         cfg.Limits,
		cost:           cfg.Cost,
		cacheTTL:       cfg.CacheTTL,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		logger:         cfg.Logger,
	}
}

// Generate produces a cover letter for the given input. Input errors surface
// immediately; provider unavailability or exhausted retries degrade to the
// static fallback letter. Identical inputs hit the cache.
func (p *Pipeline) Generate(ctx context.Context, in types.GenerationInput) (*types.GenerationResult, error) {
	tracer := otel.Tracer("resumelens.generation")
	ctx, span := tracer.Start(ctx, "generation.cover_letter")
	defer span.End()

	in, warnings, err := p.prepare(in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	key := cache.Key(cacheNamespace,
		in.ResumeText, in.JobDescription, in.JobTitle, in.CompanyName, in.Tone)
	if cached := p.lookup(ctx, key); cached != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	if p.provider == nil {
		p.logger.Info("No AI provider configured, using fallback cover letter")
		return p.fallbackResult(in, warnings, "AI provider not configured"), nil
	}

	systemPrompt, userPrompt := p.prompts.BuildCoverLetter(in)
	generated, err := p.generateWithRetry(ctx, systemPrompt, userPrompt)
	if err != nil {
		if apperrors.IsBadInput(err) || apperrors.KindOf(err) == apperrors.KindBadRequest {
			span.RecordError(err)
			return nil, err
		}
		p.logger.LogError(err, "Cover letter generation failed, using fallback template")
		span.SetAttributes(attribute.Bool("generation.fallback", true))
		return p.fallbackResult(in, warnings, "AI provider unavailable"), nil
	}

	content := strings.TrimSpace(generated.Text)
	result := p.assemble(ctx, in, content, generated, warnings)

	p.store(ctx, key, result)

	span.SetAttributes(
		attribute.Int("generation.word_count", result.Metadata.WordCount),
		attribute.Int("generation.quality_score", result.Metadata.QualityScore),
	)
	return result, nil
}

// prepare sanitizes and validates the input, then truncates it against the
// length limits and the token budget. Truncation never fails; every cut is
// recorded as a warning.
func (p *Pipeline) prepare(in types.GenerationInput) (types.GenerationInput, []string, error) {
	in.ResumeText = common.Sanitize(in.ResumeText)
	in.JobDescription = common.Sanitize(in.JobDescription)
	in.JobTitle = common.Sanitize(in.JobTitle)
	in.CompanyName = common.Sanitize(in.CompanyName)
	in.Tone = common.Sanitize(in.Tone)

	if len(in.ResumeText) < p.limits.MinResumeChars {
		return in, nil, apperrors.NewValidationError(apperrors.ErrCodeTextTooShort,
			"Resume text is too short to generate a cover letter", nil).
			WithKind(apperrors.KindBadInput).
			WithContext("length", len(in.ResumeText)).
			WithContext("minimum", p.limits.MinResumeChars)
	}
	if len(in.JobDescription) < p.limits.MinJobDescriptionChars {
		return in, nil, apperrors.NewValidationError(apperrors.ErrCodeTextTooShort,
			"Job description is too short to generate a cover letter", nil).
			WithKind(apperrors.KindBadInput).
			WithContext("length", len(in.JobDescription)).
			WithContext("minimum", p.limits.MinJobDescriptionChars)
	}

	var warnings []string
	if p.limits.MaxResumeChars > 0 && len(in.ResumeText) > p.limits.MaxResumeChars {
		in.ResumeText = common.Truncate(in.ResumeText, p.limits.MaxResumeChars)
		warnings = append(warnings, "Resume text was truncated to the configured maximum length")
	}
	if p.limits.MaxJobDescriptionChars > 0 && len(in.JobDescription) > p.limits.MaxJobDescriptionChars {
		in.JobDescription = common.Truncate(in.JobDescription, p.limits.MaxJobDescriptionChars)
		warnings = append(warnings, "Job description was truncated to the configured maximum length")
	}

	// Second pass: the combined text must fit the estimated token budget.
	// Both fields shrink proportionally so neither dominates the prompt.
	if p.limits.TokenBudget > 0 {
		total := len(in.ResumeText) + len(in.JobDescription)
		budget := p.limits.TokenBudget * charsPerToken
		if total > budget {
			in.ResumeText = common.Truncate(in.ResumeText, len(in.ResumeText)*budget/total)
			in.JobDescription = common.Truncate(in.JobDescription, len(in.JobDescription)*budget/total)
			warnings = append(warnings, "Inputs were truncated further to fit the token budget")
		}
	}

	return in, warnings, nil
}

// generateWithRetry retries transient failures with exponential backoff.
// Bad-request class errors and unavailability stop the loop immediately.
func (p *Pipeline) generateWithRetry(ctx context.Context, systemPrompt, userPrompt string) (ai.GenerateResult, error) {
	var lastErr error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		if attempt > 1 {
			p.logger.Warn("Retrying cover letter generation",
				"attempt", attempt,
				"max_retries", p.maxRetries,
				"error", lastErr.Error())
			if err := p.sleepBackoff(ctx, attempt-1); err != nil {
				return ai.GenerateResult{}, err
			}
		}

		result, err := p.provider.Generate(ctx, systemPrompt, userPrompt, ai.GenerateOptions{})
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !apperrors.IsRetryable(err) {
			break
		}
	}
	return ai.GenerateResult{}, lastErr
}

// sleepBackoff waits base*2^(attempt-1) with 10% jitter, capped, honoring
// context cancellation mid-backoff.
func (p *Pipeline) sleepBackoff(ctx context.Context, attempt int) error {
	delay := p.retryBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	if delay > maxBackoff {
		delay = maxBackoff
	}
	if n, err := rand.Int(rand.Reader, big.NewInt(int64(delay)/10+1)); err == nil {
		delay += time.Duration(n.Int64())
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return apperrors.NewAIError(apperrors.ErrCodeAITimeout,
			"Cancelled during retry backoff", ctx.Err()).
			WithKind(apperrors.KindTransient)
	case <-timer.C:
		return nil
	}
}

// assemble runs the safety pass and builds the final result with cost and
// usage metadata.
func (p *Pipeline) assemble(ctx context.Context, in types.GenerationInput, content string, generated ai.GenerateResult, warnings []string) *types.GenerationResult {
	report := p.safety.Check(ctx, safety.CheckInput{
		Content:    content,
		SourceText: in.ResumeText + "\n" + in.JobDescription,
		Quality: safety.QualityContext{
			JobTitle:       in.JobTitle,
			CompanyName:    in.CompanyName,
			JobDescription: in.JobDescription,
		},
	})

	var issues []string
	if !report.IsReliable {
		issues = append(issues, report.Recommendation)
	}

	return &types.GenerationResult{
		Content: content,
		Metadata: types.GenerationMetadata{
			WordCount:      len(strings.Fields(content)),
			CharacterCount: len(content),
			TokensUsed:     generated.InputTokens + generated.OutputTokens,
			Cost:           p.estimateCost(generated.InputTokens, generated.OutputTokens),
			QualityScore:   report.QualityScore,
			Moderation:     report.Moderation,
			Hallucination:  report.Hallucination,
			Bias:           report.Bias,
		},
		Warnings: warnings,
		Issues:   issues,
	}
}

func (p *Pipeline) estimateCost(inputTokens, outputTokens int64) float64 {
	return float64(inputTokens)/1e6*p.cost.InputPerMillion +
		float64(outputTokens)/1e6*p.cost.OutputPerMillion
}

func (p *Pipeline) lookup(ctx context.Context, key string) *types.GenerationResult {
	data, found, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn("Generation cache lookup failed", "error", err.Error())
		return nil
	}
	if !found {
		return nil
	}

	var result types.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		p.logger.Warn("Discarding undecodable generation cache entry", "error", err.Error())
		return nil
	}
	result.Cached = true
	return &result
}

func (p *Pipeline) store(ctx context.Context, key string, result *types.GenerationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		p.logger.Warn("Failed to encode generation result for caching", "error", err.Error())
		return
	}
	if err := p.cache.SetWithTTL(ctx, key, data, p.cacheTTL); err != nil {
		p.logger.Warn("Failed to cache generation result", "error", err.Error())
	}
}
