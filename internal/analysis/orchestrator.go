// Package analysis orchestrates one resume analysis call: sanitize, cache
// lookup, segmentation, deterministic scoring, relevance scoring, prompt
// build, provider call, merge, and cache store. Provider failures that are
// not the caller's fault degrade to a deterministic fallback analysis instead
// of surfacing an error.
package analysis

import (
	"context"
	"encoding/json"
	"time"

	"resumelens/internal/ai"
	"resumelens/internal/cache"
	"resumelens/internal/common"
	"resumelens/internal/config"
	apperrors "resumelens/internal/errors"
	"resumelens/internal/prompt"
	"resumelens/internal/relevance"
	"resumelens/internal/schema"
	"resumelens/internal/scoring"
	"resumelens/internal/segment"
	"resumelens/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const cacheNamespace = "analysis"

// Deterministic dimensions the AI reply must never override
var deterministicSections = map[string]bool{
	types.SectionContactInfo: true,
	types.SectionSkills:      true,
	types.SectionFormatting:  true,
}

// Config wires an Orchestrator. Provider may be nil, which forces the
// fallback path on every call.
type Config struct {
	Provider ai.TextProvider
	Engine   *relevance.Engine
	Prompts  *prompt.Builder
	Cache    cache.Cache
	Limits   config.LimitsConfig
	CacheTTL time.Duration
	Logger   *apperrors.Logger
}

// Orchestrator runs the analysis pipeline. Stateless between calls except
// for the shared cache, so it is safe for concurrent use.
type Orchestrator struct {
	provider ai.TextProvider
	engine   *relevance.Engine
	prompts  *prompt.Builder
	cache    cache.Cache
	limits   config.LimitsConfig
	cacheTTL time.Duration
	logger   *apperrors.Logger
}

// New creates an analysis orchestrator
func New(cfg Config) *Orchestrator {
	return &Orchestrator{
		provider: cfg.Provider,
		engine:   cfg.Engine,
		prompts:  cfg.Prompts,
		cache:    cfg.Cache,
		limits:   cfg.Limits,
		cacheTTL: cfg.CacheTTL,
		logger:   cfg.Logger,
	}
}

// Analyze scores one resume. Input errors surface immediately; provider
// unavailability, quota exhaustion and malformed replies degrade to the
// deterministic fallback analysis. Identical inputs hit the cache and return
// a copy tagged Cached.
func (o *Orchestrator) Analyze(ctx context.Context, resumeText, jobDescription string, analysisType types.AnalysisType) (*types.AnalysisResult, error) {
	tracer := otel.Tracer("resumelens.analysis")
	ctx, span := tracer.Start(ctx, "analysis.analyze")
	defer span.End()
	span.SetAttributes(attribute.String("analysis.type", string(analysisType)))

	resumeText = common.Sanitize(resumeText)
	jobDescription = common.Sanitize(jobDescription)

	if err := o.validate(resumeText, jobDescription, analysisType); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var warnings []string
	if o.limits.MaxResumeChars > 0 && len(resumeText) > o.limits.MaxResumeChars {
		resumeText = common.Truncate(resumeText, o.limits.MaxResumeChars)
		warnings = append(warnings, "Resume text was truncated to the configured maximum length")
	}
	if o.limits.MaxJobDescriptionChars > 0 && len(jobDescription) > o.limits.MaxJobDescriptionChars {
		jobDescription = common.Truncate(jobDescription, o.limits.MaxJobDescriptionChars)
		warnings = append(warnings, "Job description was truncated to the configured maximum length")
	}

	key := cache.Key(cacheNamespace, resumeText, string(analysisType), jobDescription)
	if cached := o.lookup(ctx, key); cached != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	sections := segment.Segment(resumeText)
	relevanceScore, relevanceMeta := o.engine.Score(ctx, sections.Skills, resumeText)

	known := types.ScoreBreakdown{
		types.SectionContactInfo: scoring.ContactScore(sections.Contact),
		types.SectionSkills:      scoring.SkillsScore(sections.Skills, resumeText, &relevanceScore),
		types.SectionFormatting:  scoring.FormattingScore(sections.DetectedHeaders, resumeText),
	}

	if o.provider == nil {
		o.logger.Info("No AI provider configured, using fallback analysis")
		return o.fallback(sections, known, analysisType, relevanceMeta,
			append(warnings, "AI provider not configured; analysis produced by deterministic heuristics")), nil
	}

	result, err := o.callProvider(ctx, prompt.AnalysisRequest{
		Type:           analysisType,
		Sections:       sections,
		KnownScores:    known,
		ResumeText:     resumeText,
		JobDescription: jobDescription,
	})
	if err != nil {
		if apperrors.IsBadInput(err) || apperrors.KindOf(err) == apperrors.KindBadRequest {
			span.RecordError(err)
			return nil, err
		}
		o.logger.LogError(err, "AI analysis failed, using fallback analysis")
		span.SetAttributes(attribute.Bool("analysis.fallback", true))
		return o.fallback(sections, known, analysisType, relevanceMeta,
			append(warnings, "AI provider unavailable; analysis produced by deterministic heuristics")), nil
	}

	merged := o.merge(known, result, sections, analysisType, relevanceMeta)
	merged.Warnings = append(warnings, merged.Warnings...)

	o.store(ctx, key, merged)

	span.SetAttributes(attribute.Int("analysis.overall_score", merged.OverallScore))
	return merged, nil
}

func (o *Orchestrator) validate(resumeText, jobDescription string, analysisType types.AnalysisType) error {
	if !analysisType.Valid() {
		return apperrors.NewValidationError(apperrors.ErrCodeUnsupportedType,
			"Unsupported analysis type", nil).
			WithKind(apperrors.KindBadInput).
			WithContext("type", string(analysisType))
	}
	if len(resumeText) < o.limits.MinResumeChars {
		return apperrors.NewValidationError(apperrors.ErrCodeTextTooShort,
			"Resume text is too short to analyze", nil).
			WithKind(apperrors.KindBadInput).
			WithContext("length", len(resumeText)).
			WithContext("minimum", o.limits.MinResumeChars)
	}
	if analysisType == types.AnalysisJobMatch && jobDescription == "" {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput,
			"Job match analysis requires a job description", nil).
			WithKind(apperrors.KindBadInput)
	}
	return nil
}

// lookup returns a cached result copy tagged Cached, or nil on a miss.
// Cache errors are logged and treated as misses.
func (o *Orchestrator) lookup(ctx context.Context, key string) *types.AnalysisResult {
	data, found, err := o.cache.Get(ctx, key)
	if err != nil {
		o.logger.Warn("Analysis cache lookup failed", "error", err.Error())
		return nil
	}
	if !found {
		return nil
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		o.logger.Warn("Discarding undecodable analysis cache entry", "error", err.Error())
		return nil
	}
	result.Cached = true
	return &result
}

func (o *Orchestrator) store(ctx context.Context, key string, result *types.AnalysisResult) {
	data, err := json.Marshal(result)
	if err != nil {
		o.logger.Warn("Failed to encode analysis result for caching", "error", err.Error())
		return
	}
	if err := o.cache.SetWithTTL(ctx, key, data, o.cacheTTL); err != nil {
		o.logger.Warn("Failed to cache analysis result", "error", err.Error())
	}
}

func (o *Orchestrator) callProvider(ctx context.Context, req prompt.AnalysisRequest) (*schema.Analysis, error) {
	systemPrompt, userPrompt, err := o.prompts.BuildAnalysis(req)
	if err != nil {
		return nil, err
	}

	generated, err := o.provider.Generate(ctx, systemPrompt, userPrompt, ai.GenerateOptions{
		JSONResponse: true,
	})
	if err != nil {
		return nil, err
	}

	return schema.ParseAnalysis(generated.Text)
}

// merge combines the deterministic scores with the AI-scored subjective
// sections. Deterministic dimensions always win.
func (o *Orchestrator) merge(known types.ScoreBreakdown, aiResult *schema.Analysis, sections *types.SectionBundle, analysisType types.AnalysisType, relevanceMeta *types.RelevanceMetadata) *types.AnalysisResult {
	scores := make(types.ScoreBreakdown, len(known)+len(aiResult.SectionScores))
	for k, v := range aiResult.SectionScores {
		if !deterministicSections[k] {
			scores[k] = v
		}
	}
	for k, v := range known {
		scores[k] = v
	}

	detected := aiResult.Detected
	if len(detected) == 0 {
		detected = sections.Skills
	}

	return &types.AnalysisResult{
		OverallScore:    scoring.Overall(scores),
		SectionScores:   scores,
		Strengths:       ensureFindings(aiResult.Strengths),
		Weaknesses:      ensureFindings(aiResult.Weaknesses),
		Recommendations: ensureFindings(aiResult.Recommendations),
		SkillsAnalysis: types.SkillsAnalysis{
			Score:     scores[types.SectionSkills],
			Detected:  detected,
			Missing:   aiResult.Missing,
			Relevance: relevanceMeta,
		},
		AnalysisType: analysisType,
		Warnings:     aiResult.Warnings,
	}
}

func ensureFindings(in []types.Finding) []types.Finding {
	if in == nil {
		return []types.Finding{}
	}
	return in
}
