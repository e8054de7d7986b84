package cli

import (
	"context"
	"fmt"
	"time"

	"resumelens/internal/analysis"
	"resumelens/internal/common"
	"resumelens/internal/prompt"
	"resumelens/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file] [job-description-file]",
	Short: "Analyze a resume for quality, ATS friendliness, or job fit",
	Long: `Analyze resume text and produce section-by-section quality scores,
strengths, weaknesses, and recommendations.

Analysis types:
- general:   overall resume quality
- ats:       applicant tracking system friendliness
- job_match: fit against a job description (requires a second file)

Deterministic dimensions (contact info, skills, formatting) are scored by
fixed rubrics; subjective sections are scored by the AI provider with a
heuristic fallback when the provider is unavailable.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig
var analyzeType string

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVarP(&analyzeType, "type", "t", string(types.AnalysisGeneral), "Analysis type: general, ats, or job_match")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
	_ = analyzeCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(types.AnalysisGeneral), string(types.AnalysisATS), string(types.AnalysisJobMatch)},
			cobra.ShellCompDirectiveNoFileComp
	})
}

type analyzeInput struct {
	ResumeText     string
	JobDescription string
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	obs := getObservabilityFromContext(cmd.Context())

	limiter := newRateLimiter(cfg)
	orchestrator := analysis.New(analysis.Config{
		Provider: newTextProvider(cfg.GetAnalyzeConfig(), "analyze", limiter, logger),
		Engine:   newRelevanceEngine(cfg, limiter, logger),
		Prompts:  prompt.NewBuilder(),
		Cache:    newCache(cfg, logger),
		Limits:   cfg.Limits,
		CacheTTL: cfg.Cache.AnalysisTTL,
		Logger:   logger,
	})

	createInput := func(contents []string) (analyzeInput, error) {
		input := analyzeInput{ResumeText: contents[0]}
		if len(contents) > 1 {
			input.JobDescription = contents[1]
		}
		return input, nil
	}

	logDetails := func(input analyzeInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"analysis_type", analyzeType,
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cmdCfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, input analyzeInput) (*types.AnalysisResult, error) {
		start := time.Now()
		result, err := orchestrator.Analyze(ctx, input.ResumeText, input.JobDescription,
			types.AnalysisType(analyzeType))
		if obs != nil {
			obs.TrackOperation(ctx, "analyze", time.Since(start), nil, err)
			obs.RecordBusinessMetric(ctx, "resume_analyzed", err == nil)
			if result != nil && result.Cached {
				obs.RecordBusinessMetric(ctx, "cache_hit", true)
			}
			if result != nil && result.Fallback {
				obs.RecordBusinessMetric(ctx, "fallback_served", true)
			}
		}
		return result, err
	}

	err := common.RunPipelineCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
