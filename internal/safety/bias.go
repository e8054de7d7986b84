package safety

import (
	"regexp"
	"strings"

	"resumelens/internal/types"
)

// Bias category labels
const (
	BiasGender        = "gender"
	BiasAge           = "age"
	BiasCultural      = "cultural"
	BiasSocioeconomic = "socioeconomic"
)

// Penalties per triggered category, deducted from a starting score of 100
const (
	genderPenalty        = 20
	agePenalty           = 15
	culturalPenalty      = 20
	socioeconomicPenalty = 15
)

// Gender imbalance triggers when one coded category outnumbers the other by
// more than this ratio with at least the minimum total occurrences.
const (
	genderImbalanceRatio = 2
	genderImbalanceMin   = 4
)

var masculineCodedTerms = []string{
	"aggressive", "ambitious", "assertive", "competitive", "confident",
	"decisive", "determined", "dominant", "driven", "fearless",
	"independent", "ninja", "rockstar", "self-reliant", "strong",
}

var feminineCodedTerms = []string{
	"collaborative", "committed", "compassionate", "considerate",
	"cooperative", "dependable", "empathetic", "interpersonal", "loyal",
	"nurturing", "pleasant", "supportive", "understanding", "warm",
}

var ageCodedTerms = []string{
	"digital native", "young and energetic", "recent graduate only",
	"youthful", "mature worker", "over-qualified", "energetic young",
}

var culturalCodedTerms = []string{
	"culture fit", "native speaker", "native english", "work hard play hard",
	"like a family", "beer fridge",
}

var socioeconomicCodedTerms = []string{
	"elite university", "ivy league", "prestigious institution",
	"top-tier school", "well-connected", "country club",
}

// DetectBias counts curated coded-language terms in the text and produces a
// scored report. Gender bias flags on imbalance between masculine- and
// feminine-coded counts; the other categories flag on any occurrence.
func DetectBias(text string) types.BiasReport {
	lower := strings.ToLower(text)

	masculine := countTerms(lower, masculineCodedTerms)
	feminine := countTerms(lower, feminineCodedTerms)
	age := countTerms(lower, ageCodedTerms)
	cultural := countTerms(lower, culturalCodedTerms)
	socioeconomic := countTerms(lower, socioeconomicCodedTerms)

	report := types.BiasReport{
		Score: 100,
		TermCounts: map[string]int{
			"masculine":       masculine,
			"feminine":        feminine,
			BiasAge:           age,
			BiasCultural:      cultural,
			BiasSocioeconomic: socioeconomic,
		},
	}

	if genderImbalanced(masculine, feminine) {
		report.Categories = append(report.Categories, BiasGender)
		report.Score -= genderPenalty
	}
	if age > 0 {
		report.Categories = append(report.Categories, BiasAge)
		report.Score -= agePenalty
	}
	if cultural > 0 {
		report.Categories = append(report.Categories, BiasCultural)
		report.Score -= culturalPenalty
	}
	if socioeconomic > 0 {
		report.Categories = append(report.Categories, BiasSocioeconomic)
		report.Score -= socioeconomicPenalty
	}

	if report.Score < 0 {
		report.Score = 0
	}
	report.HasBias = len(report.Categories) > 0
	report.Grade = ScoreGrade(report.Score)
	return report
}

// genderImbalanced reports whether one gendered category outnumbers the
// other by more than 2x with at least 4 occurrences on the larger side.
func genderImbalanced(masculine, feminine int) bool {
	hi, lo := masculine, feminine
	if feminine > masculine {
		hi, lo = feminine, masculine
	}
	if hi < genderImbalanceMin {
		return false
	}
	return hi > lo*genderImbalanceRatio
}

// ScoreGrade maps a 0-100 score to a letter grade
func ScoreGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	default:
		return "D"
	}
}

// countTerms counts word-bounded occurrences of each term in the lowercased
// text. Multi-word terms are matched as phrases.
func countTerms(lowerText string, terms []string) int {
	total := 0
	for _, term := range terms {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
		total += len(re.FindAllString(lowerText, -1))
	}
	return total
}
