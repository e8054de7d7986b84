package segment

import (
	"slices"
	"strings"
	"testing"

	"resumelens/internal/types"
)

const sampleResume = `Jane Doe
jane.doe@example.com | (555) 123-4567
linkedin.com/in/janedoe
Austin, TX

Summary
Backend engineer with eight years of experience building distributed systems.

Experience
Senior Software Engineer, Acme Corp
2019 - 2024
- Led migration of payment services to Kubernetes
- Reduced p99 latency by 40%

Education
B.S. Computer Science, University of Texas
2011 - 2015

Skills
Go, Python, PostgreSQL, Kubernetes, Docker, Terraform

Achievements
- Speaker at GopherCon 2023
- Patent holder for distributed rate limiting
`

func TestSegmentFullResume(t *testing.T) {
	bundle := Segment(sampleResume)

	if bundle.Contact == nil {
		t.Fatal("expected contact info to be extracted")
	}
	if bundle.Contact.Email != "jane.doe@example.com" {
		t.Errorf("expected email, got %q", bundle.Contact.Email)
	}
	if bundle.Contact.Phone == "" {
		t.Error("expected phone to be extracted")
	}
	if !strings.Contains(bundle.Contact.ProfileURL, "linkedin.com/in/janedoe") {
		t.Errorf("expected profile URL, got %q", bundle.Contact.ProfileURL)
	}
	if bundle.Contact.Location != "Austin, TX" {
		t.Errorf("expected location 'Austin, TX', got %q", bundle.Contact.Location)
	}

	if !strings.Contains(bundle.Summary, "Backend engineer") {
		t.Errorf("summary not extracted: %q", bundle.Summary)
	}
	if !strings.Contains(bundle.Experience, "Acme Corp") {
		t.Errorf("experience not extracted: %q", bundle.Experience)
	}
	if !strings.Contains(bundle.Education, "University of Texas") {
		t.Errorf("education not extracted: %q", bundle.Education)
	}

	wantSkills := []string{"Go", "Python", "PostgreSQL", "Kubernetes", "Docker", "Terraform"}
	if !slices.Equal(bundle.Skills, wantSkills) {
		t.Errorf("expected skills %v, got %v", wantSkills, bundle.Skills)
	}

	if len(bundle.Achievements) != 2 {
		t.Errorf("expected 2 achievements, got %v", bundle.Achievements)
	}

	for _, name := range []string{
		types.SectionSummary, types.SectionExperience,
		types.SectionEducation, types.SectionSkills, types.SectionAchievements,
	} {
		if !slices.Contains(bundle.DetectedHeaders, name) {
			t.Errorf("expected header %q to be detected, got %v", name, bundle.DetectedHeaders)
		}
	}
}

func TestSegmentMissingSections(t *testing.T) {
	bundle := Segment("Just a paragraph of text with no structure at all.")

	if bundle.Summary != "" || bundle.Experience != "" || bundle.Education != "" {
		t.Error("expected empty sections for unstructured text")
	}
	if len(bundle.Skills) != 0 || len(bundle.Achievements) != 0 {
		t.Error("expected no skills or achievements")
	}
	if len(bundle.DetectedHeaders) != 0 {
		t.Errorf("expected no detected headers, got %v", bundle.DetectedHeaders)
	}
	if bundle.Contact != nil {
		t.Errorf("expected nil contact, got %+v", bundle.Contact)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	bundle := Segment("")
	if bundle == nil {
		t.Fatal("segmenter must not return nil")
	}
	if len(bundle.DetectedHeaders) != 0 {
		t.Errorf("expected no headers for empty input, got %v", bundle.DetectedHeaders)
	}
}

func TestSegmentHeaderVariants(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		header string
	}{
		{"objective as summary", "Objective\nTo build great software.", types.SectionSummary},
		{"work history as experience", "Work History\nEngineer at Foo.", types.SectionExperience},
		{"technical skills", "Technical Skills:\nGo, Rust", types.SectionSkills},
		{"awards as achievements", "Awards\n- Best paper 2020", types.SectionAchievements},
		{"academic background as education", "Academic Background\nPhD, MIT", types.SectionEducation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := Segment(tt.text)
			if !slices.Contains(bundle.DetectedHeaders, tt.header) {
				t.Errorf("expected %q detected for %q, got %v", tt.header, tt.text, bundle.DetectedHeaders)
			}
		})
	}
}

func TestSkillsCategorizedList(t *testing.T) {
	text := "Skills\nLanguages: Go, Python\nInfrastructure: Kubernetes, Terraform"
	bundle := Segment(text)

	want := []string{"Go", "Python", "Kubernetes", "Terraform"}
	if !slices.Equal(bundle.Skills, want) {
		t.Errorf("expected %v, got %v", want, bundle.Skills)
	}
}

func TestSkillsDeduplication(t *testing.T) {
	text := "Skills\nGo, go, GO, Python"
	bundle := Segment(text)

	if len(bundle.Skills) != 2 {
		t.Errorf("expected case-insensitive dedup to 2 skills, got %v", bundle.Skills)
	}
}

func TestPhoneNotConfusedWithDates(t *testing.T) {
	text := "Experience\nEngineer 2019 - 2024 built 555 123 4567 widgets"
	bundle := Segment(text)

	if bundle.Contact != nil && bundle.Contact.Phone != "" {
		t.Errorf("date-range line misread as phone: %q", bundle.Contact.Phone)
	}
}

func TestCountCanonical(t *testing.T) {
	tests := []struct {
		name     string
		detected []string
		want     int
	}{
		{"all four", []string{"summary", "experience", "education", "skills"}, 4},
		{"achievements not canonical", []string{"achievements"}, 0},
		{"two present", []string{"experience", "skills"}, 2},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCanonical(tt.detected); got != tt.want {
				t.Errorf("CountCanonical(%v) = %d, want %d", tt.detected, got, tt.want)
			}
		})
	}
}
