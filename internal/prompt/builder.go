// Package prompt renders the system and user prompts for resume analysis,
// cover letter generation, and moderation. Analysis prompts embed the
// sections the segmenter found plus the deterministic scores already
// computed, so the model is only asked to judge the subjective sections.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Builder renders prompts from a configurable set of system instructions
type Builder struct {
	system SystemPrompts
}

// NewBuilder returns a Builder using the default system prompts
func NewBuilder() *Builder {
	return &Builder{system: DefaultSystemPrompts}
}

// NewBuilderWith allows overriding individual system prompts; empty fields
// keep the defaults.
func NewBuilderWith(overrides SystemPrompts) *Builder {
	s := DefaultSystemPrompts
	if overrides.AnalyzeResume != "" {
		s.AnalyzeResume = overrides.AnalyzeResume
	}
	if overrides.CoverLetter != "" {
		s.CoverLetter = overrides.CoverLetter
	}
	if overrides.Moderation != "" {
		s.Moderation = overrides.Moderation
	}
	return &Builder{system: s}
}

// AnalysisRequest carries everything the analysis prompt needs
type AnalysisRequest struct {
	Type           types.AnalysisType
	Sections       *types.SectionBundle
	KnownScores    types.ScoreBreakdown
	ResumeText     string
	JobDescription string
}

// BuildAnalysis renders the system and user prompts for one analysis call
func (b *Builder) BuildAnalysis(req AnalysisRequest) (system, user string, err error) {
	if !req.Type.Valid() {
		return "", "", errors.NewValidationError(errors.ErrCodeUnsupportedType,
			fmt.Sprintf("Unsupported analysis type: %s", req.Type), nil)
	}
	if req.Type == types.AnalysisJobMatch && strings.TrimSpace(req.JobDescription) == "" {
		return "", "", errors.NewValidationError(errors.ErrCodeInvalidInput,
			"Job match analysis requires a job description", nil)
	}

	var rubric string
	switch req.Type {
	case types.AnalysisATS:
		rubric = atsRubric
	case types.AnalysisJobMatch:
		rubric = jobMatchRubric
	default:
		rubric = generalRubric
	}

	var sb strings.Builder
	sb.WriteString(rubric)
	sb.WriteString("\n\n")

	if block := knownScoresBlock(req.KnownScores); block != "" {
		sb.WriteString(block)
		sb.WriteString("\n")
	}

	if req.Type == types.AnalysisJobMatch {
		sb.WriteString("**Job Description:**\n-----\n")
		sb.WriteString(strings.TrimSpace(req.JobDescription))
		sb.WriteString("\n-----\n\n")
	}

	sb.WriteString(sectionsBlock(req.Sections, req.ResumeText))
	sb.WriteString("\n")
	sb.WriteString(analysisResponseFormat)

	return b.system.AnalyzeResume, sb.String(), nil
}

// BuildCoverLetter renders the system and user prompts for generation
func (b *Builder) BuildCoverLetter(in types.GenerationInput) (system, user string) {
	tone := in.Tone
	if tone == "" {
		tone = "professional and warm"
	}
	title := in.JobTitle
	if title == "" {
		title = "the advertised role"
	}
	company := in.CompanyName
	if company == "" {
		company = "the company"
	}
	user = fmt.Sprintf(coverLetterTemplate,
		tone, title, company,
		strings.TrimSpace(in.JobDescription),
		strings.TrimSpace(in.ResumeText))
	return b.system.CoverLetter, user
}

// BuildModeration renders the prompts for the moderation classifier
func (b *Builder) BuildModeration(text string) (system, user string) {
	user = fmt.Sprintf(`Classify the following text. Respond with JSON only:
{"flagged": bool, "categories": ["..."]}

Text:
-----
%s
-----`, text)
	return b.system.Moderation, user
}

// knownScoresBlock lists the already-computed deterministic scores and tells
// the model not to re-score those dimensions.
func knownScoresBlock(scores types.ScoreBreakdown) string {
	if len(scores) == 0 {
		return ""
	}
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("**Already scored deterministically (do NOT re-score these):**\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "- %s: %d/100\n", k, scores[k])
	}
	return sb.String()
}

// sectionsBlock renders the detected sections; sections the segmenter did
// not find are listed as missing so the model can weigh their absence. When
// nothing was detected the raw resume text is included instead.
func sectionsBlock(sections *types.SectionBundle, resumeText string) string {
	if sections == nil {
		return fmt.Sprintf("**Resume:**\n-----\n%s\n-----\n", strings.TrimSpace(resumeText))
	}

	var sb strings.Builder
	var missing []string
	found := 0

	write := func(name, body string) {
		if strings.TrimSpace(body) == "" {
			missing = append(missing, name)
			return
		}
		found++
		fmt.Fprintf(&sb, "**%s:**\n%s\n\n", name, strings.TrimSpace(body))
	}

	write("Summary", sections.Summary)
	write("Experience", sections.Experience)
	write("Education", sections.Education)
	write("Skills", strings.Join(sections.Skills, ", "))
	write("Achievements", strings.Join(sections.Achievements, "\n"))

	if found == 0 {
		return fmt.Sprintf("**Resume (no recognizable sections detected):**\n-----\n%s\n-----\n",
			strings.TrimSpace(resumeText))
	}
	if len(missing) > 0 {
		fmt.Fprintf(&sb, "**Missing sections:** %s\n", strings.Join(missing, ", "))
	}
	return sb.String()
}

// analysisResponseFormat pins the reply shape the schema validator expects
const analysisResponseFormat = `Respond with JSON only, in exactly this shape:
{
  "sectionScores": {"summary": 0, "experience": 0, "education": 0, "achievements": 0},
  "strengths": [{"category": "", "description": "", "severity": "low|medium|high", "suggestions": [""]}],
  "weaknesses": [{"category": "", "description": "", "severity": "low|medium|high", "suggestions": [""]}],
  "recommendations": [{"category": "", "description": "", "severity": "low|medium|high", "suggestions": [""]}],
  "skillsAnalysis": {"detected": [""], "missing": [""]}
}
Scores are integers from 0 to 100. Do not wrap the JSON in markdown fences.`
