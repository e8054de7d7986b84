package ai

import (
	"context"

	"resumelens/internal/config"
	apperrors "resumelens/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GeminiEmbedder implements EmbeddingProvider for Google Gemini
type GeminiEmbedder struct {
	client  *genai.Client
	cfg     *config.OperationAIConfig
	breaker *EmbedCircuitBreaker
	limiter *rate.Limiter
	logger  *apperrors.Logger
}

var _ EmbeddingProvider = (*GeminiEmbedder)(nil)

// NewGeminiEmbedder creates a Gemini embedding provider
func NewGeminiEmbedder(cfg *config.OperationAIConfig, limiter *rate.Limiter, logger *apperrors.Logger) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeMissingAPIKey,
			"Gemini API key is required for embeddings", nil).
			WithKind(apperrors.KindUnavailable)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini embedding client", err).WithKind(apperrors.KindUnavailable)
	}

	return &GeminiEmbedder{
		client:  client,
		cfg:     cfg,
		breaker: NewEmbedCircuitBreaker("embed", cfg, logger),
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Embed implements EmbeddingProvider. All texts go out in one batched call;
// the returned vectors are index-aligned with the input.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, *e.cfg.Timeout)
	defer cancel()

	tracer := otel.Tracer("resumelens.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.embed")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.model", e.cfg.Model),
		attribute.Int("ai.embed.batch_size", len(texts)),
	)

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			span.RecordError(err)
			return nil, apperrors.NewAIError(apperrors.ErrCodeAITimeout,
				"Cancelled while waiting for a rate limit slot", err).
				WithKind(apperrors.KindTransient)
		}
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	resp, err := e.breaker.Execute(func() (*genai.EmbedContentResponse, error) {
		return e.client.Models.EmbedContent(ctx, e.cfg.Model, contents, &genai.EmbedContentConfig{})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Embedding request failed", err).WithKind(apperrors.KindUnavailable)
	}

	if len(resp.Embeddings) != len(texts) {
		err := apperrors.NewAIError(apperrors.ErrCodeAIResponseInvalid,
			"Embedding response size mismatch", nil).
			WithKind(apperrors.KindMalformedOutput).
			WithContext("expected", len(texts)).
			WithContext("got", len(resp.Embeddings))
		span.RecordError(err)
		return nil, err
	}

	vectors := make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vec := make([]float64, len(emb.Values))
		for j, v := range emb.Values {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}

	span.SetAttributes(attribute.Bool("success", true))
	return vectors, nil
}
