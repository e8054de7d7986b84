package safety

import (
	"context"
	"fmt"
	"math"
	"strings"

	"resumelens/internal/ai"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Pipeline runs every analyzer over a generated artifact. Moderation is the
// only component touching the network and may be absent.
type Pipeline struct {
	moderator ai.ModerationProvider
	logger    *errors.Logger
}

// NewPipeline builds a safety pipeline; moderator may be nil
func NewPipeline(moderator ai.ModerationProvider, logger *errors.Logger) *Pipeline {
	return &Pipeline{moderator: moderator, logger: logger}
}

// CheckInput describes one generated artifact to analyze
type CheckInput struct {
	Content string
	// SourceText is the material claims are verified against, typically
	// resume plus job description concatenated.
	SourceText string
	Quality    QualityContext
}

// Check runs PII, moderation, hallucination, bias, and quality analysis and
// aggregates them into one report. It never fails: moderation errors degrade
// to the skipped verdict inside Moderate.
func (p *Pipeline) Check(ctx context.Context, in CheckInput) types.SafetyReport {
	report := types.SafetyReport{
		PIIFindings:   DetectPII(in.Content),
		Moderation:    Moderate(ctx, p.moderator, p.logger, in.Content),
		Hallucination: DetectHallucinations(in.Content, in.SourceText),
		Bias:          DetectBias(in.Content),
	}
	report.QualityScore, _ = ScoreQuality(in.Content, in.Quality)

	report.SafetyScore = aggregateScore(report)
	report.Grade = ScoreGrade(report.SafetyScore)
	report.IsReliable = reliable(report)
	report.Recommendation = recommend(report)
	return report
}

// aggregateScore averages the analyzer scores, with hard caps for flagged
// moderation and detected PII.
func aggregateScore(r types.SafetyReport) int {
	score := int(math.Round(
		(float64(r.Hallucination.Confidence) + float64(r.Bias.Score) + float64(r.QualityScore)) / 3))
	if r.Moderation.Flagged {
		score = min(score, 30)
	}
	if len(r.PIIFindings) > 0 {
		score = min(score, 60)
	}
	return score
}

func reliable(r types.SafetyReport) bool {
	return !r.Moderation.Flagged &&
		len(r.PIIFindings) == 0 &&
		r.Hallucination.Confidence >= 60 &&
		!r.Bias.HasBias
}

// recommend produces the human-readable verdict line for the report
func recommend(r types.SafetyReport) string {
	var issues []string
	if r.Moderation.Flagged {
		issues = append(issues, fmt.Sprintf("content flagged by moderation (%s)",
			strings.Join(r.Moderation.Categories, ", ")))
	}
	if n := len(r.PIIFindings); n > 0 {
		issues = append(issues, fmt.Sprintf("%d PII finding(s) present", n))
	}
	if r.Hallucination.UnverifiedCount > 0 {
		issues = append(issues, fmt.Sprintf("%d unverified claim(s), confidence %d",
			r.Hallucination.UnverifiedCount, r.Hallucination.Confidence))
	}
	if r.Bias.HasBias {
		issues = append(issues, fmt.Sprintf("biased language detected (%s)",
			strings.Join(r.Bias.Categories, ", ")))
	}

	if len(issues) == 0 {
		return "Content passed all safety checks and is ready to use."
	}
	verdict := "Review recommended before use"
	if !reliable(r) {
		verdict = "Manual review required before use"
	}
	return fmt.Sprintf("%s: %s.", verdict, strings.Join(issues, "; "))
}
