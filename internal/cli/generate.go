package cli

import (
	"context"
	"fmt"
	"time"

	"resumelens/internal/common"
	"resumelens/internal/generation"
	"resumelens/internal/observability"
	"resumelens/internal/prompt"
	"resumelens/internal/types"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [resume-file] [job-description-file]",
	Short: "Generate a cover letter from a resume and a job description",
	Long: `Generate a cover letter grounded in the resume text and targeted at the
given job description. The letter is checked for PII, unverifiable claims,
biased language, and structural quality before it is returned.

When the AI provider is unavailable, a generic template personalized with
the job title and company is returned instead.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if generateConfig.OutputFormat == "" {
			generateConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(generateConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runGenerate,
}

var generateConfig common.CommandConfig
var (
	generateJobTitle string
	generateCompany  string
	generateTone     string
)

func init() {
	generateCmd.Flags().StringVarP(&generateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	generateCmd.Flags().StringVar(&generateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	generateCmd.Flags().StringVar(&generateJobTitle, "title", "", "Job title the letter applies for")
	generateCmd.Flags().StringVar(&generateCompany, "company", "", "Company the letter is addressed to")
	generateCmd.Flags().StringVar(&generateTone, "tone", "", "Tone of the letter (default: professional and warm)")

	_ = generateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	obs := getObservabilityFromContext(cmd.Context())

	limiter := newRateLimiter(cfg)
	prompts := prompt.NewBuilder()
	generateCfg := cfg.GetGenerateConfig()

	maxRetries := cfg.AI.MaxRetries
	if generateCfg.MaxRetries != nil {
		maxRetries = *generateCfg.MaxRetries
	}
	retryBaseDelay := cfg.AI.RetryBaseDelay
	if generateCfg.RetryBaseDelay != nil {
		retryBaseDelay = *generateCfg.RetryBaseDelay
	}

	pipeline := generation.New(generation.Config{
		Provider:       newTextProvider(generateCfg, "generate", limiter, logger),
		Prompts:        prompts,
		Cache:          newCache(cfg, logger),
		Safety:         newSafetyPipeline(cfg, prompts, limiter, logger),
		Limits:         cfg.Limits,
		Cost:           cfg.Cost,
		CacheTTL:       cfg.Cache.GenerationTTL,
		MaxRetries:     maxRetries,
		RetryBaseDelay: retryBaseDelay,
		Logger:         logger,
	})

	createInput := func(contents []string) (types.GenerationInput, error) {
		return types.GenerationInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
			JobTitle:       generateJobTitle,
			CompanyName:    generateCompany,
			Tone:           generateTone,
		}, nil
	}

	logDetails := func(input types.GenerationInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting cover letter generation",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"job_title", input.JobTitle,
			"company", input.CompanyName,
			"output_format", cmdCfg.OutputFormat)
	}

	generateOperation := func(ctx context.Context, input types.GenerationInput) (*types.GenerationResult, error) {
		start := time.Now()
		result, err := pipeline.Generate(ctx, input)
		if obs != nil {
			var usage *observability.TokenUsage
			if result != nil && result.Metadata.TokensUsed > 0 {
				usage = &observability.TokenUsage{TotalTokens: result.Metadata.TokensUsed}
			}
			obs.TrackOperation(ctx, "generate", time.Since(start), usage, err)
			obs.RecordBusinessMetric(ctx, "cover_letter_generated", err == nil)
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
		generateConfig,
		args,
		createInput,
		generateOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate cover letter: %w", err)
	}
	logger.Info("Cover letter generation completed successfully")
	return nil
}
