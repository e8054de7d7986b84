// Package scoring computes the deterministic (non-AI) dimensions of a resume
// analysis: contact completeness, skills quality, formatting/ATS-friendliness,
// and the weighted overall score. Every function is pure and offline.
package scoring

import (
	"math"
	"regexp"
	"strings"

	"resumelens/internal/segment"
	"resumelens/internal/types"
)

// SectionWeights is the fixed weight table for the overall score. It sums to
// 1.0; sections absent from a score map are excluded from both numerator and
// denominator so the remaining weights renormalize.
var SectionWeights = map[string]float64{
	types.SectionContactInfo:  0.10,
	types.SectionSummary:      0.15,
	types.SectionExperience:   0.30,
	types.SectionEducation:    0.15,
	types.SectionSkills:       0.20,
	types.SectionAchievements: 0.05,
	types.SectionFormatting:   0.05,
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^(\+?\d{1,3}[\s.\-]?)?(\(?\d{3}\)?[\s.\-]?)\d{3}[\s.\-]?\d{4}$`)

	dateTokenRe = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4}\b|\b\d{1,2}/\d{4}\b|\b(?:19|20)\d{2}\b`)
	bulletRe    = regexp.MustCompile(`(?m)^[\s]*[-*•▪◦·]\s+\S`)
)

// knownTechnologies is the curated list backing the skills specificity
// dimension. Matching is case insensitive and exact per skill phrase.
var knownTechnologies = map[string]bool{
	"go": true, "golang": true, "python": true, "java": true, "javascript": true,
	"typescript": true, "rust": true, "c++": true, "c#": true, "ruby": true,
	"kotlin": true, "swift": true, "scala": true, "php": true, "sql": true,
	"react": true, "angular": true, "vue": true, "node.js": true, "django": true,
	"flask": true, "spring": true, "rails": true, ".net": true, "express": true,
	"postgresql": true, "mysql": true, "mongodb": true, "redis": true,
	"elasticsearch": true, "cassandra": true, "dynamodb": true, "sqlite": true,
	"kafka": true, "rabbitmq": true, "grpc": true, "graphql": true,
	"docker": true, "kubernetes": true, "terraform": true, "ansible": true,
	"jenkins": true, "aws": true, "azure": true, "gcp": true, "linux": true,
	"git": true, "prometheus": true, "grafana": true, "spark": true,
	"hadoop": true, "tensorflow": true, "pytorch": true, "pandas": true,
	"numpy": true, "scikit-learn": true,
}

// processKeywords are delivery-process terms counted by the keyword
// optimization dimension.
var processKeywords = []string{
	"agile", "scrum", "kanban", "sprint", "ci/cd", "continuous integration",
	"continuous delivery", "tdd", "test-driven", "devops", "code review",
	"pair programming", "retrospective", "iterative",
}

// Point budgets for the skills score dimensions. They sum to 100.
const (
	skillsDiversityBudget   = 25
	skillsSpecificityBudget = 25
	skillsRelevanceBudget   = 35
	skillsKeywordBudget     = 15

	diversityCeiling   = 10
	specificityCeiling = 8
	keywordCeiling     = 5
)

// Clamp bounds a score to [0,100]
func Clamp(score int) int {
	return min(max(score, 0), 100)
}

// ContactScore applies the 25/25/25/25 rubric to extracted contact fields
func ContactScore(contact *types.ContactInfo) int {
	if contact == nil {
		return 0
	}

	score := 0
	if emailRe.MatchString(contact.Email) {
		score += 25
	}
	if phoneRe.MatchString(contact.Phone) {
		score += 25
	}
	if contact.ProfileURL != "" {
		score += 25
	}
	if contact.Location != "" {
		score += 25
	}
	return score
}

// SkillsScore combines diversity, specificity, relevance and keyword
// optimization. relevanceScore is the externally computed 0-100 relevance
// (nil when the relevance engine did not run); without it the literal
// presence of skills in the resume text fills the same budget.
func SkillsScore(skills []string, resumeText string, relevanceScore *int) int {
	if len(skills) == 0 {
		return 0
	}

	distinct := make(map[string]bool, len(skills))
	for _, s := range skills {
		distinct[strings.ToLower(strings.TrimSpace(s))] = true
	}

	diversity := scaled(len(distinct), diversityCeiling, skillsDiversityBudget)

	specific := 0
	for s := range distinct {
		if knownTechnologies[s] {
			specific++
		}
	}
	specificity := scaled(specific, specificityCeiling, skillsSpecificityBudget)

	var relevance float64
	if relevanceScore != nil {
		relevance = float64(Clamp(*relevanceScore)) / 100.0 * skillsRelevanceBudget
	} else {
		lower := strings.ToLower(resumeText)
		found := 0
		for s := range distinct {
			if strings.Contains(lower, s) {
				found++
			}
		}
		relevance = float64(found) / float64(len(distinct)) * skillsRelevanceBudget
	}

	lower := strings.ToLower(resumeText)
	keywordHits := 0
	for _, kw := range processKeywords {
		if strings.Contains(lower, kw) {
			keywordHits++
		}
	}
	keywords := scaled(keywordHits, keywordCeiling, skillsKeywordBudget)

	total := diversity + specificity + relevance + keywords
	return Clamp(int(math.Round(total)))
}

// scaled maps a count with a ceiling onto a point budget
func scaled(count, ceiling, budget int) float64 {
	if count > ceiling {
		count = ceiling
	}
	return float64(count) / float64(ceiling) * float64(budget)
}

// Point budgets for the formatting score. They sum to 100.
const (
	formattingSectionBudget     = 40
	formattingReadabilityBudget = 30
	formattingDateBudget        = 30

	minReadableLines = 10
)

// FormattingScore measures ATS-friendliness of the raw text: canonical
// section coverage, structural readability, and date (or capitalization)
// consistency.
func FormattingScore(detectedHeaders []string, resumeText string) int {
	canonical := segment.CountCanonical(detectedHeaders)
	score := float64(canonical) / 4.0 * formattingSectionBudget

	score += float64(readabilityScore(resumeText))
	score += float64(consistencyScore(resumeText))

	return Clamp(int(math.Round(score)))
}

// readabilityScore awards 10 points each for bullet usage, paragraph breaks,
// and a minimum line count.
func readabilityScore(text string) int {
	score := 0
	if len(bulletRe.FindAllString(text, 4)) >= 3 {
		score += 10
	}

	blankLines := 0
	lines := strings.Split(text, "\n")
	nonEmpty := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankLines++
		} else {
			nonEmpty++
		}
	}
	if blankLines >= 2 {
		score += 10
	}
	if nonEmpty >= minReadableLines {
		score += 10
	}
	return score
}

// consistencyScore checks date-format homogeneity by token string length;
// when no date tokens exist it falls back to capitalization consistency of
// non-empty lines.
func consistencyScore(text string) int {
	dates := dateTokenRe.FindAllString(text, -1)
	if len(dates) >= 2 {
		lengths := make(map[int]int)
		for _, d := range dates {
			lengths[len(d)]++
		}
		modal := 0
		for _, n := range lengths {
			if n > modal {
				modal = n
			}
		}
		frac := float64(modal) / float64(len(dates))
		return int(math.Round(frac * formattingDateBudget))
	}

	lines := strings.Split(text, "\n")
	total, capitalized := 0, 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		total++
		r := rune(line[0])
		if r >= 'A' && r <= 'Z' {
			capitalized++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(capitalized) / float64(total) * formattingDateBudget))
}

// Overall computes the weighted average of the present section scores. Keys
// missing from the breakdown drop out of both numerator and denominator;
// keys outside the weight table are ignored.
func Overall(scores types.ScoreBreakdown) int {
	var weighted, totalWeight float64
	for key, score := range scores {
		w, ok := SectionWeights[key]
		if !ok {
			continue
		}
		weighted += float64(Clamp(score)) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return Clamp(int(math.Round(weighted / totalWeight)))
}
