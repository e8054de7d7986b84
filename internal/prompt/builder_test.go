package prompt

import (
	"strings"
	"testing"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

func TestBuildAnalysisGeneral(t *testing.T) {
	b := NewBuilder()
	system, user, err := b.BuildAnalysis(AnalysisRequest{
		Type: types.AnalysisGeneral,
		Sections: &types.SectionBundle{
			Summary:    "Backend engineer with 8 years of experience.",
			Experience: "Acme Corp, 2018-2024.",
			Skills:     []string{"Go", "PostgreSQL"},
		},
		KnownScores: types.ScoreBreakdown{
			types.SectionContactInfo: 75,
			types.SectionFormatting:  100,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if system != DefaultSystemPrompts.AnalyzeResume {
		t.Error("general analysis should use the default analyze system prompt")
	}

	for _, want := range []string{
		"contactInfo: 75/100",
		"formatting: 100/100",
		"do NOT re-score",
		"Backend engineer with 8 years",
		"Go, PostgreSQL",
		`"sectionScores"`,
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
	// Sections the segmenter did not find are called out as missing.
	if !strings.Contains(user, "Missing sections:") {
		t.Error("expected a missing-sections line for absent education/achievements")
	}
}

func TestBuildAnalysisTypeSelection(t *testing.T) {
	b := NewBuilder()
	sections := &types.SectionBundle{Summary: "text"}

	tests := []struct {
		typ    types.AnalysisType
		jd     string
		marker string
	}{
		{types.AnalysisGeneral, "", "Score each of the following sections"},
		{types.AnalysisATS, "", "Applicant Tracking System"},
		{types.AnalysisJobMatch, "Looking for a Go developer.", "matches the provided job description"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			_, user, err := b.BuildAnalysis(AnalysisRequest{
				Type: tt.typ, Sections: sections, JobDescription: tt.jd,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(user, tt.marker) {
				t.Errorf("prompt for %s missing rubric marker %q", tt.typ, tt.marker)
			}
		})
	}
}

func TestBuildAnalysisJobMatchEmbedsDescription(t *testing.T) {
	b := NewBuilder()
	_, user, err := b.BuildAnalysis(AnalysisRequest{
		Type:           types.AnalysisJobMatch,
		Sections:       &types.SectionBundle{Summary: "text"},
		JobDescription: "Senior Platform Engineer, Kubernetes required.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(user, "Kubernetes required.") {
		t.Error("job description was not embedded in the prompt")
	}
}

func TestBuildAnalysisRejectsBadInput(t *testing.T) {
	b := NewBuilder()

	_, _, err := b.BuildAnalysis(AnalysisRequest{Type: "pirate"})
	if err == nil {
		t.Fatal("expected error for unknown analysis type")
	}
	if !errors.IsBadInput(err) {
		t.Errorf("unknown type should be bad input, got kind %q", errors.KindOf(err))
	}

	_, _, err = b.BuildAnalysis(AnalysisRequest{Type: types.AnalysisJobMatch})
	if err == nil {
		t.Fatal("expected error for job match without a job description")
	}
	if !errors.IsBadInput(err) {
		t.Errorf("missing job description should be bad input, got kind %q", errors.KindOf(err))
	}
}

func TestBuildAnalysisNoSectionsFallsBackToRawText(t *testing.T) {
	b := NewBuilder()
	raw := "Just a wall of text with no headers at all."

	_, user, err := b.BuildAnalysis(AnalysisRequest{
		Type:       types.AnalysisGeneral,
		Sections:   &types.SectionBundle{},
		ResumeText: raw,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(user, raw) {
		t.Error("raw resume text should be included when no sections were detected")
	}
	if !strings.Contains(user, "no recognizable sections") {
		t.Error("prompt should note that no sections were detected")
	}
}

func TestBuildCoverLetter(t *testing.T) {
	b := NewBuilder()
	system, user := b.BuildCoverLetter(types.GenerationInput{
		ResumeText:     "Jane Doe. Go developer since 2016.",
		JobDescription: "We need a Go developer.",
		JobTitle:       "Senior Go Developer",
		CompanyName:    "Initech",
		Tone:           "enthusiastic",
	})
	if system != DefaultSystemPrompts.CoverLetter {
		t.Error("cover letter should use the cover letter system prompt")
	}
	for _, want := range []string{
		"Senior Go Developer", "Initech", "enthusiastic",
		"Jane Doe. Go developer since 2016.",
		"Do not invent",
		"inclusive, bias-free",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("cover letter prompt missing %q", want)
		}
	}
}

func TestBuildCoverLetterDefaults(t *testing.T) {
	b := NewBuilder()
	_, user := b.BuildCoverLetter(types.GenerationInput{
		ResumeText:     "resume",
		JobDescription: "jd",
	})
	if !strings.Contains(user, "the advertised role") || !strings.Contains(user, "the company") {
		t.Error("missing title/company should fall back to neutral placeholders")
	}
}

func TestNewBuilderWithOverrides(t *testing.T) {
	b := NewBuilderWith(SystemPrompts{CoverLetter: "custom letter prompt"})
	system, _ := b.BuildCoverLetter(types.GenerationInput{ResumeText: "r", JobDescription: "j"})
	if system != "custom letter prompt" {
		t.Errorf("override not applied, got %q", system)
	}
	sys, _, err := b.BuildAnalysis(AnalysisRequest{
		Type:     types.AnalysisGeneral,
		Sections: &types.SectionBundle{Summary: "s"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if sys != DefaultSystemPrompts.AnalyzeResume {
		t.Error("unset fields must keep defaults")
	}
}
