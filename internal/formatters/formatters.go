package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumelens/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "GenerationResult", &GenerationTextFormatter{})
	registry.RegisterFormatter("markdown", "GenerationResult", &GenerationMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult, *types.AnalysisResult:
		return "AnalysisResult"
	case types.GenerationResult, *types.GenerationResult:
		return "GenerationResult"
	default:
		return "any"
	}
}

func toAnalysisResult(data any) (*types.AnalysisResult, error) {
	switch v := data.(type) {
	case types.AnalysisResult:
		return &v, nil
	case *types.AnalysisResult:
		return v, nil
	}
	return nil, fmt.Errorf("expected AnalysisResult, got %T", data)
}

func toGenerationResult(data any) (*types.GenerationResult, error) {
	switch v := data.(type) {
	case types.GenerationResult:
		return &v, nil
	case *types.GenerationResult:
		return v, nil
	}
	return nil, fmt.Errorf("expected GenerationResult, got %T", data)
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// Section display order for analysis output
var sectionOrder = []string{
	types.SectionContactInfo,
	types.SectionSummary,
	types.SectionExperience,
	types.SectionEducation,
	types.SectionSkills,
	types.SectionAchievements,
	types.SectionFormatting,
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, err := toAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Analysis Type: %s\n", result.AnalysisType))
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n", result.OverallScore))
	if result.Cached {
		output.WriteString("(served from cache)\n")
	}
	if result.Fallback {
		output.WriteString("(produced by deterministic fallback, no AI provider)\n")
	}
	output.WriteString("\n=== SECTION SCORES ===\n")
	for _, key := range sectionOrder {
		if score, ok := result.SectionScores[key]; ok {
			output.WriteString(fmt.Sprintf("%-14s %d/100\n", key+":", score))
		}
	}
	output.WriteString("\n")

	writeFindingsText(&output, "STRENGTHS", result.Strengths)
	writeFindingsText(&output, "WEAKNESSES", result.Weaknesses)
	writeFindingsText(&output, "RECOMMENDATIONS", result.Recommendations)

	output.WriteString("=== SKILLS ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", result.SkillsAnalysis.Score))
	if len(result.SkillsAnalysis.Detected) > 0 {
		output.WriteString(fmt.Sprintf("Detected: %s\n", strings.Join(result.SkillsAnalysis.Detected, ", ")))
	}
	if len(result.SkillsAnalysis.Missing) > 0 {
		output.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(result.SkillsAnalysis.Missing, ", ")))
	}
	if rel := result.SkillsAnalysis.Relevance; rel != nil {
		output.WriteString(fmt.Sprintf("Relevance method: %s (%d/%d skills matched)\n",
			rel.Method, rel.MatchedSkills, rel.SkillCount))
	}

	if len(result.Warnings) > 0 {
		output.WriteString("\n=== WARNINGS ===\n")
		for _, w := range result.Warnings {
			output.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeFindingsText(output *strings.Builder, title string, findings []types.Finding) {
	if len(findings) == 0 {
		return
	}
	output.WriteString(fmt.Sprintf("=== %s ===\n", title))
	for i, f := range findings {
		output.WriteString(fmt.Sprintf("%d. [%s] %s", i+1, f.Category, f.Description))
		if f.Severity != "" {
			output.WriteString(fmt.Sprintf(" (%s)", f.Severity))
		}
		output.WriteString("\n")
		for _, s := range f.Suggestions {
			output.WriteString(fmt.Sprintf("   - %s\n", s))
		}
	}
	output.WriteString("\n")
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, err := toAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Analysis Type:** %s\n\n", result.AnalysisType))
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.OverallScore))

	output.WriteString("## Section Scores\n\n")
	output.WriteString("| Section | Score |\n|---|---|\n")
	for _, key := range sectionOrder {
		if score, ok := result.SectionScores[key]; ok {
			output.WriteString(fmt.Sprintf("| %s | %d/100 |\n", key, score))
		}
	}
	output.WriteString("\n")

	writeFindingsMarkdown(&output, "Strengths", result.Strengths)
	writeFindingsMarkdown(&output, "Weaknesses", result.Weaknesses)
	writeFindingsMarkdown(&output, "Recommendations", result.Recommendations)

	output.WriteString("## Skills\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.SkillsAnalysis.Score))
	if len(result.SkillsAnalysis.Detected) > 0 {
		output.WriteString(fmt.Sprintf("**Detected:** %s\n\n", strings.Join(result.SkillsAnalysis.Detected, ", ")))
	}
	if len(result.SkillsAnalysis.Missing) > 0 {
		output.WriteString(fmt.Sprintf("**Missing:** %s\n\n", strings.Join(result.SkillsAnalysis.Missing, ", ")))
	}

	if len(result.Warnings) > 0 {
		output.WriteString("## Warnings\n\n")
		for _, w := range result.Warnings {
			output.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeFindingsMarkdown(output *strings.Builder, title string, findings []types.Finding) {
	if len(findings) == 0 {
		return
	}
	output.WriteString(fmt.Sprintf("## %s\n\n", title))
	for _, f := range findings {
		output.WriteString(fmt.Sprintf("- **%s:** %s", f.Category, f.Description))
		if f.Severity != "" {
			output.WriteString(fmt.Sprintf(" _(%s)_", f.Severity))
		}
		output.WriteString("\n")
		for _, s := range f.Suggestions {
			output.WriteString(fmt.Sprintf("  - %s\n", s))
		}
	}
	output.WriteString("\n")
}

// GenerationTextFormatter handles text formatting for cover letter results
type GenerationTextFormatter struct{}

func (gtf *GenerationTextFormatter) Format(data any) (string, error) {
	result, err := toGenerationResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== COVER LETTER ===\n\n")
	output.WriteString(result.Content)
	output.WriteString("\n\n=== DETAILS ===\n")
	output.WriteString(fmt.Sprintf("Words: %d | Characters: %d\n",
		result.Metadata.WordCount, result.Metadata.CharacterCount))
	if result.Metadata.TokensUsed > 0 {
		output.WriteString(fmt.Sprintf("Tokens used: %d (estimated cost $%.6f)\n",
			result.Metadata.TokensUsed, result.Metadata.Cost))
	}
	output.WriteString(fmt.Sprintf("Quality score: %d/100\n", result.Metadata.QualityScore))
	output.WriteString(fmt.Sprintf("Bias grade: %s (%d/100)\n",
		result.Metadata.Bias.Grade, result.Metadata.Bias.Score))
	output.WriteString(fmt.Sprintf("Claim confidence: %d/100\n", result.Metadata.Hallucination.Confidence))
	if result.Fallback {
		output.WriteString("(generic template, AI provider unavailable)\n")
	}

	if len(result.Warnings) > 0 {
		output.WriteString("\n=== WARNINGS ===\n")
		for _, w := range result.Warnings {
			output.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}
	if len(result.Issues) > 0 {
		output.WriteString("\n=== ISSUES ===\n")
		for _, issue := range result.Issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
	}

	return output.String(), nil
}

func (gtf *GenerationTextFormatter) SupportedType() string {
	return "GenerationResult"
}

// GenerationMarkdownFormatter handles markdown formatting for cover letter results
type GenerationMarkdownFormatter struct{}

func (gmf *GenerationMarkdownFormatter) Format(data any) (string, error) {
	result, err := toGenerationResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Cover Letter\n\n")
	output.WriteString(result.Content)
	output.WriteString("\n\n## Details\n\n")
	output.WriteString(fmt.Sprintf("- **Words:** %d\n", result.Metadata.WordCount))
	output.WriteString(fmt.Sprintf("- **Characters:** %d\n", result.Metadata.CharacterCount))
	if result.Metadata.TokensUsed > 0 {
		output.WriteString(fmt.Sprintf("- **Tokens used:** %d\n", result.Metadata.TokensUsed))
		output.WriteString(fmt.Sprintf("- **Estimated cost:** $%.6f\n", result.Metadata.Cost))
	}
	output.WriteString(fmt.Sprintf("- **Quality score:** %d/100\n", result.Metadata.QualityScore))
	output.WriteString(fmt.Sprintf("- **Bias grade:** %s (%d/100)\n",
		result.Metadata.Bias.Grade, result.Metadata.Bias.Score))
	output.WriteString(fmt.Sprintf("- **Claim confidence:** %d/100\n",
		result.Metadata.Hallucination.Confidence))

	if len(result.Warnings) > 0 {
		output.WriteString("\n## Warnings\n\n")
		for _, w := range result.Warnings {
			output.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}
	if len(result.Issues) > 0 {
		output.WriteString("\n## Issues\n\n")
		for _, issue := range result.Issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
	}

	return output.String(), nil
}

func (gmf *GenerationMarkdownFormatter) SupportedType() string {
	return "GenerationResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
