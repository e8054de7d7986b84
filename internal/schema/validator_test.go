package schema

import (
	"strings"
	"testing"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

const validResponse = `{
  "sectionScores": {"summary": 80, "experience": 90, "education": 70, "achievements": 60},
  "strengths": [{"category": "experience", "description": "Strong progression", "severity": "high", "suggestions": ["Keep quantifying results"]}],
  "weaknesses": [{"category": "summary", "description": "Too generic", "severity": "low", "suggestions": []}],
  "recommendations": [{"category": "skills", "description": "Add cloud tooling", "severity": "medium", "suggestions": ["List specific platforms"]}],
  "skillsAnalysis": {"detected": ["Go", "Docker"], "missing": ["Kubernetes"]}
}`

func TestParseAnalysisValid(t *testing.T) {
	out, err := ParseAnalysis(validResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.SectionScores[types.SectionSummary] != 80 ||
		out.SectionScores[types.SectionExperience] != 90 {
		t.Errorf("scores not carried through: %v", out.SectionScores)
	}
	if len(out.Strengths) != 1 || out.Strengths[0].Severity != "high" {
		t.Errorf("strengths mishandled: %+v", out.Strengths)
	}
	if len(out.Detected) != 2 || len(out.Missing) != 1 {
		t.Errorf("skills analysis mishandled: %v / %v", out.Detected, out.Missing)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("valid response should produce no warnings, got %v", out.Warnings)
	}
}

func TestParseAnalysisUnwrapsFences(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	out, err := ParseAnalysis(fenced)
	if err != nil {
		t.Fatalf("fenced JSON should parse: %v", err)
	}
	if out.SectionScores[types.SectionSummary] != 80 {
		t.Error("fenced content lost")
	}
}

func TestParseAnalysisLeadingProse(t *testing.T) {
	prose := "Here is the analysis you asked for:\n" + validResponse
	if _, err := ParseAnalysis(prose); err != nil {
		t.Fatalf("leading prose before the JSON object should be tolerated: %v", err)
	}
}

func TestParseAnalysisRepairsDefects(t *testing.T) {
	raw := `{
	  "sectionScores": {"summary": 150, "experience": -10, "contactInfo": 99, "formatting": 1},
	  "strengths": [
	    {"category": "", "description": "Good detail", "priority": "HIGH"},
	    {"category": "x", "description": "", "severity": "low"}
	  ],
	  "weaknesses": [{"description": "Vague summary", "severity": "critical"}],
	  "skillsAnalysis": {"detected": ["Go", "go", " Go ", ""]}
	}`
	out, err := ParseAnalysis(raw)
	if err != nil {
		t.Fatalf("repairable response must not error: %v", err)
	}

	if out.SectionScores[types.SectionSummary] != 100 {
		t.Errorf("over-range score should clamp to 100, got %d", out.SectionScores[types.SectionSummary])
	}
	if out.SectionScores[types.SectionExperience] != 0 {
		t.Errorf("negative score should clamp to 0, got %d", out.SectionScores[types.SectionExperience])
	}
	if _, ok := out.SectionScores[types.SectionContactInfo]; ok {
		t.Error("deterministic section scores from the AI must be dropped")
	}
	if _, ok := out.SectionScores[types.SectionFormatting]; ok {
		t.Error("deterministic section scores from the AI must be dropped")
	}
	// Missing education/achievements default to 0 with warnings.
	if out.SectionScores[types.SectionEducation] != 0 {
		t.Error("missing sections should default to 0")
	}

	if len(out.Strengths) != 1 {
		t.Fatalf("empty-description finding should be dropped, got %d strengths", len(out.Strengths))
	}
	if out.Strengths[0].Severity != "high" {
		t.Errorf("priority alias should map to severity, got %q", out.Strengths[0].Severity)
	}
	if out.Strengths[0].Category == "" {
		t.Error("empty category should be defaulted")
	}
	if out.Weaknesses[0].Severity != "medium" {
		t.Errorf("unknown severity should default to medium, got %q", out.Weaknesses[0].Severity)
	}
	if len(out.Detected) != 1 {
		t.Errorf("detected skills should be deduped case-insensitively, got %v", out.Detected)
	}
	if len(out.Warnings) == 0 {
		t.Error("repairs should be reported as warnings")
	}
}

func TestParseAnalysisFractionalScores(t *testing.T) {
	out, err := ParseAnalysis(`{"sectionScores": {"summary": 79.6}}`)
	if err != nil {
		t.Fatal(err)
	}
	if out.SectionScores[types.SectionSummary] != 80 {
		t.Errorf("fractional score should round, got %d", out.SectionScores[types.SectionSummary])
	}
}

func TestParseAnalysisMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   \n  "},
		{"not json", "I cannot analyze this resume."},
		{"truncated", `{"sectionScores": {"summary": 80`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnalysis(tt.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.KindOf(err) != errors.KindMalformedOutput {
				t.Errorf("expected malformed output kind, got %q", errors.KindOf(err))
			}
		})
	}
}

func TestParseModeration(t *testing.T) {
	res, err := ParseModeration("```json\n{\"flagged\": true, \"categories\": [\"hate\", \"hate\"]}\n```")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Flagged {
		t.Error("flagged verdict lost")
	}
	if len(res.Categories) != 1 {
		t.Errorf("categories should dedupe, got %v", res.Categories)
	}

	if _, err := ParseModeration("not json"); err == nil {
		t.Error("expected error for invalid moderation JSON")
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"Sure, here you go: {\"a\":1} hope that helps", "{\"a\":1}"},
	}
	for _, tt := range tests {
		if got := StripFences(tt.in); got != tt.want {
			t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	for _, tt := range []struct{ in, want int }{{-5, 0}, {0, 0}, {50, 50}, {100, 100}, {101, 100}} {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseAnalysisWarningText(t *testing.T) {
	out, err := ParseAnalysis(`{"sectionScores": {"formatting": 10}}`)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, w := range out.Warnings {
		if strings.Contains(w, "formatting") {
			found = true
		}
	}
	if !found {
		t.Errorf("warning should name the dropped section, got %v", out.Warnings)
	}
}
