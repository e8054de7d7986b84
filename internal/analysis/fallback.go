package analysis

import (
	"strings"

	"resumelens/internal/scoring"
	"resumelens/internal/types"
)

// Heuristic score bands for subjective sections when no provider is
// reachable. A present section starts at the base and earns up to the bonus
// from its word count.
const (
	fallbackBase      = 50
	fallbackWordBonus = 30
	fallbackWordsFull = 150 // word count at which the full bonus is earned
)

// fallback synthesizes a complete analysis without calling the provider.
// It always succeeds.
func (o *Orchestrator) fallback(sections *types.SectionBundle, known types.ScoreBreakdown, analysisType types.AnalysisType, relevanceMeta *types.RelevanceMetadata, warnings []string) *types.AnalysisResult {
	scores := types.ScoreBreakdown{
		types.SectionSummary:      heuristicScore(sections.Summary),
		types.SectionExperience:   heuristicScore(sections.Experience),
		types.SectionEducation:    heuristicScore(sections.Education),
		types.SectionAchievements: heuristicScore(strings.Join(sections.Achievements, "\n")),
	}
	for k, v := range known {
		scores[k] = v
	}

	strengths, weaknesses, recommendations := heuristicFindings(sections, known)

	return &types.AnalysisResult{
		OverallScore:    scoring.Overall(scores),
		SectionScores:   scores,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Recommendations: recommendations,
		SkillsAnalysis: types.SkillsAnalysis{
			Score:     scores[types.SectionSkills],
			Detected:  sections.Skills,
			Relevance: relevanceMeta,
		},
		AnalysisType: analysisType,
		Fallback:     true,
		Warnings:     warnings,
	}
}

// heuristicScore rates a section body purely by presence and length
func heuristicScore(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	bonus := words * fallbackWordBonus / fallbackWordsFull
	if bonus > fallbackWordBonus {
		bonus = fallbackWordBonus
	}
	return scoring.Clamp(fallbackBase + bonus)
}

func heuristicFindings(sections *types.SectionBundle, known types.ScoreBreakdown) (strengths, weaknesses, recommendations []types.Finding) {
	strengths = []types.Finding{}
	weaknesses = []types.Finding{}
	recommendations = []types.Finding{}

	if known[types.SectionContactInfo] >= 75 {
		strengths = append(strengths, types.Finding{
			Category:    "contact",
			Description: "Contact information is complete and easy to find",
		})
	} else {
		weaknesses = append(weaknesses, types.Finding{
			Category:    "contact",
			Description: "Contact information is incomplete",
			Severity:    "medium",
		})
		recommendations = append(recommendations, types.Finding{
			Category:    "contact",
			Description: "Add a professional email, phone number, profile link and location",
			Severity:    "medium",
		})
	}

	if len(sections.Skills) >= 5 {
		strengths = append(strengths, types.Finding{
			Category:    "skills",
			Description: "A broad set of skills is listed",
		})
	} else {
		recommendations = append(recommendations, types.Finding{
			Category:    "skills",
			Description: "List more specific skills and technologies relevant to your field",
			Severity:    "medium",
		})
	}

	type sectionCheck struct {
		key  string
		body string
	}
	for _, check := range []sectionCheck{
		{types.SectionSummary, sections.Summary},
		{types.SectionExperience, sections.Experience},
		{types.SectionEducation, sections.Education},
	} {
		if strings.TrimSpace(check.body) == "" {
			weaknesses = append(weaknesses, types.Finding{
				Category:    check.key,
				Description: "No " + check.key + " section was detected",
				Severity:    "high",
			})
			recommendations = append(recommendations, types.Finding{
				Category:    check.key,
				Description: "Add a clearly labeled " + check.key + " section",
				Severity:    "high",
			})
		}
	}

	if len(sections.Achievements) == 0 {
		recommendations = append(recommendations, types.Finding{
			Category:    types.SectionAchievements,
			Description: "Highlight measurable achievements to stand out",
			Severity:    "low",
		})
	}

	return strengths, weaknesses, recommendations
}
