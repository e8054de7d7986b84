package ai

import (
	"context"
	"crypto/rand"
	goerrors "errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"time"

	"resumelens/internal/config"
	apperrors "resumelens/internal/errors"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const maxBackoff = 30 * time.Second

// GeminiProvider implements TextProvider for Google Gemini
type GeminiProvider struct {
	client    *genai.Client
	cfg       *config.OperationAIConfig
	operation string
	breaker   *AICircuitBreaker
	limiter   *rate.Limiter
	logger    *apperrors.Logger
}

// Ensure GeminiProvider implements TextProvider
var _ TextProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini text provider for a specific operation.
// The limiter is shared across providers to throttle all outbound calls; a
// nil limiter disables throttling.
func NewGeminiProvider(cfg *config.OperationAIConfig, operation string, limiter *rate.Limiter, logger *apperrors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeMissingAPIKey,
			"Gemini API key is required (set RESUMELENS_AI_APIKEY)", nil).
			WithKind(apperrors.KindUnavailable)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err).WithKind(apperrors.KindUnavailable)
	}

	return &GeminiProvider{
		client:    client,
		cfg:       cfg,
		operation: operation,
		breaker:   NewAICircuitBreaker(operation, cfg, logger),
		limiter:   limiter,
		logger:    logger,
	}, nil
}

// Generate implements TextProvider. Failures come back classified by kind so
// callers can route them: transient ones were already retried here, bad
// requests must not be retried again, unavailability should trigger the
// caller's fallback path.
func (g *GeminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (GenerateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, *g.cfg.Timeout)
	defer cancel()

	tracer := otel.Tracer("resumelens.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+g.operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.cfg.Model),
		attribute.Int("ai.prompt_length", len(userPrompt)),
	)

	if err := g.waitForSlot(ctx); err != nil {
		span.RecordError(err)
		return GenerateResult{}, err
	}

	genaiConfig := g.buildGenerateConfig(systemPrompt, opts)

	result, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		classified := g.classifyError(err)
		span.RecordError(classified)
		span.SetAttributes(attribute.Bool("success", false))
		return GenerateResult{}, classified
	}

	text := result.Text()
	if text == "" {
		err := apperrors.NewAIError(apperrors.ErrCodeAIResponseInvalid,
			"Gemini returned an empty response", nil).WithKind(apperrors.KindMalformedOutput)
		span.RecordError(err)
		return GenerateResult{}, err
	}

	out := GenerateResult{Text: text}
	if usage := result.UsageMetadata; usage != nil {
		out.InputTokens = int64(usage.PromptTokenCount)
		out.OutputTokens = int64(usage.CandidatesTokenCount)
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", out.InputTokens),
			attribute.Int64("ai.tokens.output", out.OutputTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))
	return out, nil
}

// Close implements TextProvider
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return g.breaker.GetStats()
}

// buildGenerateConfig assembles the genai call configuration
func (g *GeminiProvider) buildGenerateConfig(systemPrompt string, opts GenerateOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if opts.JSONResponse {
		cfg.ResponseMIMEType = "application/json"
	}
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxOutputTokens
	} else if g.cfg.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = g.cfg.MaxOutputTokens
	}

	if opts.Temperature != nil {
		cfg.Temperature = opts.Temperature
	} else if *g.cfg.Temperature > 0 {
		cfg.Temperature = g.cfg.Temperature
	}

	if *g.cfg.UseSystemPrompts && systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	return cfg
}

// waitForSlot blocks on the shared rate limiter
func (g *GeminiProvider) waitForSlot(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return apperrors.NewAIError(apperrors.ErrCodeAITimeout,
			"Cancelled while waiting for a rate limit slot", err).
			WithKind(apperrors.KindTransient)
	}
	return nil
}

// executeWithRetry runs fn with exponential backoff. The base delay doubles
// each attempt with 10% jitter, capped at maxBackoff. Non-retryable errors
// stop the loop immediately, and backoff sleeps honor ctx cancellation.
func (g *GeminiProvider) executeWithRetry(ctx context.Context, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error
	maxRetries := *g.cfg.MaxRetries

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", g.operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			if err := sleepBackoff(ctx, backoffDelay(*g.cfg.RetryBaseDelay, attempt)); err != nil {
				return nil, err
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", g.operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableProviderError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", g.operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", g.operation,
		"total_attempts", maxRetries+1)
	return nil, fmt.Errorf("operation '%s' failed after retries: %w", g.operation, lastErr)
}

// backoffDelay computes the delay before the given attempt (1-based):
// base, base*2, base*4, ... plus up to 10% jitter, capped at maxBackoff.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	// Use crypto/rand for jitter to avoid synchronized retries
	if jitterMax := int64(float64(delay) * 0.1); jitterMax > 0 {
		jitterBig, _ := rand.Int(rand.Reader, big.NewInt(jitterMax))
		delay += time.Duration(jitterBig.Int64())
	}
	return min(delay, maxBackoff)
}

func sleepBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isRetryableProviderError reports whether another attempt is worthwhile:
// network failures, timeouts, rate limiting and 5xx responses.
func isRetryableProviderError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if goerrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	if goerrors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return false
}

// classifyError maps provider failures onto error kinds for the caller
func (g *GeminiProvider) classifyError(err error) error {
	if goerrors.Is(err, gobreaker.ErrOpenState) || goerrors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.NewAIError(apperrors.ErrCodeAIUnavailable,
			"AI circuit breaker is open", err).WithKind(apperrors.KindUnavailable)
	}

	var apiErr *googleapi.Error
	if goerrors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return apperrors.NewAIError(apperrors.ErrCodeAIQuotaExceeded,
				"AI quota or rate limit exceeded", err).WithKind(apperrors.KindUnavailable)
		case apiErr.Code == http.StatusBadRequest,
			apiErr.Code == http.StatusUnauthorized,
			apiErr.Code == http.StatusForbidden:
			return apperrors.NewAIError(apperrors.ErrCodeAIBadRequest,
				fmt.Sprintf("AI request rejected with status %d", apiErr.Code), err).
				WithKind(apperrors.KindBadRequest)
		case apiErr.Code >= 500:
			return apperrors.NewAIError(apperrors.ErrCodeAIUnavailable,
				fmt.Sprintf("AI service error %d", apiErr.Code), err).
				WithKind(apperrors.KindTransient)
		}
	}

	if goerrors.Is(err, context.DeadlineExceeded) || goerrors.Is(err, context.Canceled) {
		return apperrors.NewAIError(apperrors.ErrCodeAITimeout,
			"AI call timed out or was cancelled", err).WithKind(apperrors.KindTransient)
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) {
		return apperrors.NewAIError(apperrors.ErrCodeAIUnavailable,
			"AI service is unreachable", err).WithKind(apperrors.KindTransient)
	}

	return apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
		"AI operation failed", err).WithKind(apperrors.KindUnavailable)
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.cfg.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := g.client.Models.Get(checkCtx, g.cfg.Model, &genai.GetModelConfig{})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.cfg.Model,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	return modelInfo
}
