package safety

import (
	"math"
	"regexp"
	"strings"
)

// Structural quality weights and bands
const (
	structureWeight = 0.7
	relevanceWeight = 0.3

	minLetterWords = 150
	maxLetterWords = 450

	minParagraphs = 3
	maxParagraphs = 6

	minAvgSentenceWords = 8
	maxAvgSentenceWords = 30
)

// Itemized structure deductions
const (
	lengthDeduction      = 20
	greetingDeduction    = 10
	closingDeduction     = 10
	paragraphDeduction   = 15
	mentionDeduction     = 10
	actionVerbDeduction  = 10
	quantifiedDeduction  = 10
	sentenceLenDeduction = 10
)

var (
	greetingRe   = regexp.MustCompile(`(?im)^\s*(dear|hello|hi|greetings|to whom)`)
	closingRe    = regexp.MustCompile(`(?i)(sincerely|best regards|kind regards|regards|respectfully|thank you for your (time|consideration))`)
	quantifiedRe = regexp.MustCompile(`\d`)
	sentenceRe   = regexp.MustCompile(`[.!?]+`)
	wordRe       = regexp.MustCompile(`\S+`)
)

var actionVerbs = []string{
	"achieved", "built", "created", "delivered", "designed", "developed",
	"drove", "implemented", "improved", "launched", "led", "managed",
	"optimized", "reduced", "shipped", "streamlined",
}

// QualityContext carries the request fields the structural checks look for
// in the generated text.
type QualityContext struct {
	JobTitle       string
	CompanyName    string
	JobDescription string
}

// QualityBreakdown itemizes the structural deductions for diagnostics
type QualityBreakdown struct {
	Structure  int
	Relevance  int
	Deductions []string
}

// ScoreQuality evaluates a generated cover letter. Structure starts at 100
// with itemized deductions; relevance is keyword overlap with the job
// description; the combined score is 0.7*structure + 0.3*relevance.
func ScoreQuality(content string, ctx QualityContext) (int, QualityBreakdown) {
	bd := QualityBreakdown{Structure: 100}
	deduct := func(points int, reason string) {
		bd.Structure -= points
		bd.Deductions = append(bd.Deductions, reason)
	}

	words := wordRe.FindAllString(content, -1)
	if len(words) < minLetterWords || len(words) > maxLetterWords {
		deduct(lengthDeduction, "length outside target band")
	}
	if !greetingRe.MatchString(content) {
		deduct(greetingDeduction, "no greeting")
	}
	if !closingRe.MatchString(content) {
		deduct(closingDeduction, "no closing")
	}
	if p := countParagraphs(content); p < minParagraphs || p > maxParagraphs {
		deduct(paragraphDeduction, "paragraph count out of range")
	}
	if !mentions(content, ctx.JobTitle) || !mentions(content, ctx.CompanyName) {
		deduct(mentionDeduction, "job title or company not mentioned")
	}
	if !hasActionVerb(content) {
		deduct(actionVerbDeduction, "no action verbs")
	}
	if !quantifiedRe.MatchString(content) {
		deduct(quantifiedDeduction, "no quantifiable figures")
	}
	if avg := avgSentenceWords(content); avg < minAvgSentenceWords || avg > maxAvgSentenceWords {
		deduct(sentenceLenDeduction, "average sentence length out of range")
	}
	if bd.Structure < 0 {
		bd.Structure = 0
	}

	bd.Relevance = keywordOverlap(content, ctx.JobDescription)

	combined := int(math.Round(structureWeight*float64(bd.Structure) + relevanceWeight*float64(bd.Relevance)))
	return combined, bd
}

// keywordOverlap scores how many distinct meaningful job-description words
// reappear in the content, as a 0-100 percentage.
func keywordOverlap(content, jobDescription string) int {
	keywords := meaningfulWords(jobDescription)
	if len(keywords) == 0 {
		return 100
	}
	contentWords := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(content), -1) {
		contentWords[strings.Trim(w, ".,;:!?()\"'")] = true
	}
	matched := 0
	for kw := range keywords {
		if contentWords[kw] {
			matched++
		}
	}
	return int(math.Round(float64(matched) / float64(len(keywords)) * 100))
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "you": true,
	"your": true, "our": true, "are": true, "will": true, "this": true,
	"that": true, "have": true, "from": true, "about": true, "who": true,
	"what": true, "their": true, "they": true, "been": true, "were": true,
	"would": true, "should": true, "could": true, "into": true, "them": true,
}

func meaningfulWords(text string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		w = strings.Trim(w, ".,;:!?()\"'")
		if len(w) < 4 || stopwords[w] {
			continue
		}
		out[w] = true
	}
	return out
}

func countParagraphs(content string) int {
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

func mentions(content, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(needle))
}

func hasActionVerb(content string) bool {
	lower := strings.ToLower(content)
	for _, v := range actionVerbs {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

func avgSentenceWords(content string) float64 {
	sentences := sentenceRe.Split(content, -1)
	var total, count int
	for _, s := range sentences {
		n := len(wordRe.FindAllString(s, -1))
		if n == 0 {
			continue
		}
		total += n
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
