package generation

import (
	"fmt"
	"strings"

	"resumelens/internal/types"
)

// fallbackTemplate is personalized with the job title and company only. It
// deliberately makes no factual claims so it needs no safety pass.
const fallbackTemplate = `Dear Hiring Manager,

I am writing to express my strong interest in the %s position at %s. After reviewing the role, I believe my background and skills align well with what your team is looking for.

Throughout my career I have focused on delivering reliable results and collaborating closely with colleagues across disciplines. I am confident that the experience summarized in my attached resume demonstrates the foundation needed to contribute from day one.

I would welcome the opportunity to discuss how I can support the goals of %s. Thank you for your time and consideration.

Sincerely,
Your Name`

// fallbackResult returns the static cover letter. It never calls the
// provider and always succeeds.
func (p *Pipeline) fallbackResult(in types.GenerationInput, warnings []string, reason string) *types.GenerationResult {
	title := in.JobTitle
	if title == "" {
		title = "advertised"
	}
	company := in.CompanyName
	if company == "" {
		company = "your organization"
	}

	content := fmt.Sprintf(fallbackTemplate, title, company, company)

	return &types.GenerationResult{
		Content: content,
		Metadata: types.GenerationMetadata{
			WordCount:      len(strings.Fields(content)),
			CharacterCount: len(content),
			Moderation:     types.ModerationResult{Skipped: true},
			Hallucination:  types.HallucinationReport{Confidence: 100},
			Bias:           types.BiasReport{Score: 100, Grade: "A"},
		},
		Warnings: warnings,
		Issues:   []string{reason + "; a generic template was returned instead of a personalized letter"},
		Fallback: true,
	}
}
