package safety

import (
	"strings"
	"testing"
)

// goodLetter is structurally sound: greeting, closing, 4 paragraphs, action
// verbs, figures, and sentences in the target length band.
func goodLetter() string {
	body := strings.Repeat("I delivered measurable results across several production systems during that period. ", 10)
	return "Dear Hiring Manager,\n\n" +
		"I am excited to apply for the Platform Engineer position at Initech because the work matches my background. " + body + "\n\n" +
		"In my current role I built and shipped services used by 40 teams, and reduced deployment time by 35 percent. " + body + "\n\n" +
		"Thank you for your consideration.\n\nSincerely,\nJane Doe"
}

func TestScoreQualityWellFormedLetter(t *testing.T) {
	score, bd := ScoreQuality(goodLetter(), QualityContext{
		JobTitle:       "Platform Engineer",
		CompanyName:    "Initech",
		JobDescription: "We need a platform engineer to build deployment systems and production services.",
	})

	if bd.Structure != 100 {
		t.Errorf("expected structure 100, got %d (deductions: %v)", bd.Structure, bd.Deductions)
	}
	if score < 70 {
		t.Errorf("well-formed letter should score at least 70, got %d", score)
	}
}

func TestScoreQualityStructureDeductions(t *testing.T) {
	// Two short sentences: bad length, no greeting/closing, one paragraph,
	// no mention, no action verb, no figures, short sentences.
	_, bd := ScoreQuality("Nice job. Hire me.", QualityContext{
		JobTitle:    "Engineer",
		CompanyName: "Acme",
	})

	if bd.Structure >= 40 {
		t.Errorf("degenerate letter should lose most structure points, got %d (deductions: %v)",
			bd.Structure, bd.Deductions)
	}
	if len(bd.Deductions) < 6 {
		t.Errorf("expected itemized deductions, got %v", bd.Deductions)
	}
}

func TestScoreQualityMentionDeduction(t *testing.T) {
	letter := goodLetter()
	withMention, _ := ScoreQuality(letter, QualityContext{
		JobTitle: "Platform Engineer", CompanyName: "Initech",
	})
	withoutMention, _ := ScoreQuality(letter, QualityContext{
		JobTitle: "Platform Engineer", CompanyName: "Globex",
	})
	if withoutMention >= withMention {
		t.Errorf("missing company mention should cost points: %d vs %d", withoutMention, withMention)
	}
}

func TestScoreQualityEmptyContextFields(t *testing.T) {
	// Empty title/company are treated as mentioned rather than penalized.
	_, bd := ScoreQuality(goodLetter(), QualityContext{})
	for _, d := range bd.Deductions {
		if strings.Contains(d, "not mentioned") {
			t.Errorf("empty context fields must not deduct: %v", bd.Deductions)
		}
	}
}

func TestKeywordOverlap(t *testing.T) {
	jd := "Kubernetes deployment automation experience required."
	content := "I automated Kubernetes deployment pipelines."

	got := keywordOverlap(content, jd)
	// JD meaningful words: kubernetes, deployment, automation, experience,
	// required. Content matches kubernetes and deployment: 2/5 = 40.
	if got != 40 {
		t.Errorf("expected overlap 40, got %d", got)
	}

	if keywordOverlap("anything", "") != 100 {
		t.Error("empty job description should not penalize relevance")
	}
}

func TestAvgSentenceWords(t *testing.T) {
	avg := avgSentenceWords("One two three. Four five six seven.")
	if avg != 3.5 {
		t.Errorf("expected 3.5, got %f", avg)
	}
	if avgSentenceWords("") != 0 {
		t.Error("empty text should average 0")
	}
}

func TestCountParagraphs(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\n\n\nThird."
	if got := countParagraphs(text); got != 3 {
		t.Errorf("expected 3 paragraphs, got %d", got)
	}
}
