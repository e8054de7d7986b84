// Package schema parses and normalizes AI responses into domain types.
// Model output is treated as untrusted: fenced JSON is unwrapped, scores are
// clamped into range, severities are defaulted, and fields the deterministic
// pipeline owns are stripped rather than trusted. Only unparseable JSON is
// rejected; every recoverable defect is repaired and reported as a warning.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Section keys the AI is allowed to score. Everything else is computed
// deterministically and must not be overridden by model output.
var aiScoredSections = map[string]bool{
	types.SectionSummary:      true,
	types.SectionExperience:   true,
	types.SectionEducation:    true,
	types.SectionAchievements: true,
}

// Analysis is the normalized shape of one AI analysis reply
type Analysis struct {
	SectionScores   types.ScoreBreakdown
	Strengths       []types.Finding
	Weaknesses      []types.Finding
	Recommendations []types.Finding
	Detected        []string
	Missing         []string
	Warnings        []string
}

// rawAnalysis mirrors the JSON the prompt asks for, with loose numeric types
type rawAnalysis struct {
	SectionScores   map[string]json.Number `json:"sectionScores"`
	Strengths       []rawFinding           `json:"strengths"`
	Weaknesses      []rawFinding           `json:"weaknesses"`
	Recommendations []rawFinding           `json:"recommendations"`
	SkillsAnalysis  struct {
		Detected []string `json:"detected"`
		Missing  []string `json:"missing"`
	} `json:"skillsAnalysis"`
}

type rawFinding struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Priority    string   `json:"priority"` // models sometimes use this name
	Suggestions []string `json:"suggestions"`
}

// ParseAnalysis validates and normalizes a raw model reply. It fails only
// when no JSON object can be decoded at all; structural defects are repaired
// in place and recorded as warnings.
func ParseAnalysis(raw string) (*Analysis, error) {
	payload := StripFences(raw)
	if strings.TrimSpace(payload) == "" {
		return nil, malformed("Empty analysis response", nil)
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var parsed rawAnalysis
	if err := dec.Decode(&parsed); err != nil {
		return nil, malformed("Analysis response is not valid JSON", err)
	}

	out := &Analysis{SectionScores: types.ScoreBreakdown{}}

	for key, num := range parsed.SectionScores {
		if !aiScoredSections[key] {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("dropped AI score for deterministic section %q", key))
			continue
		}
		score, ok := toScore(num)
		if !ok {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("non-numeric score for section %q, defaulted to 0", key))
		}
		out.SectionScores[key] = score
	}
	for key := range aiScoredSections {
		if _, ok := out.SectionScores[key]; !ok {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("section %q missing from AI response, defaulted to 0", key))
			out.SectionScores[key] = 0
		}
	}

	out.Strengths = normalizeFindings(parsed.Strengths, "strength", &out.Warnings)
	out.Weaknesses = normalizeFindings(parsed.Weaknesses, "weakness", &out.Warnings)
	out.Recommendations = normalizeFindings(parsed.Recommendations, "recommendation", &out.Warnings)
	out.Detected = dedupeStrings(parsed.SkillsAnalysis.Detected)
	out.Missing = dedupeStrings(parsed.SkillsAnalysis.Missing)

	return out, nil
}

// ParseModeration decodes the moderation classifier reply
func ParseModeration(raw string) (types.ModerationResult, error) {
	payload := StripFences(raw)
	var parsed struct {
		Flagged    bool     `json:"flagged"`
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return types.ModerationResult{}, malformed("Moderation response is not valid JSON", err)
	}
	return types.ModerationResult{
		Flagged:    parsed.Flagged,
		Categories: dedupeStrings(parsed.Categories),
	}, nil
}

// StripFences removes a surrounding markdown code fence and any prose before
// the first brace, which some models emit despite instructions.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if start := strings.Index(s, "{"); start > 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}

// Clamp bounds a score into [0,100]
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func toScore(num json.Number) (int, bool) {
	if f, err := num.Float64(); err == nil {
		return Clamp(int(math.Round(f))), true
	}
	return 0, false
}

var validSeverities = map[string]bool{"low": true, "medium": true, "high": true}

func normalizeFindings(in []rawFinding, kind string, warnings *[]string) []types.Finding {
	var out []types.Finding
	for _, f := range in {
		desc := strings.TrimSpace(f.Description)
		if desc == "" {
			*warnings = append(*warnings, fmt.Sprintf("dropped %s with empty description", kind))
			continue
		}
		sev := strings.ToLower(strings.TrimSpace(f.Severity))
		if sev == "" {
			sev = strings.ToLower(strings.TrimSpace(f.Priority))
		}
		if !validSeverities[sev] {
			sev = "medium"
		}
		cat := strings.TrimSpace(f.Category)
		if cat == "" {
			cat = kind
		}
		out = append(out, types.Finding{
			Category:    cat,
			Description: desc,
			Severity:    sev,
			Suggestions: dedupeStrings(f.Suggestions),
		})
	}
	return out
}

func dedupeStrings(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func malformed(message string, cause error) *errors.AppError {
	return errors.NewAIError(errors.ErrCodeAIResponseInvalid, message, cause).
		WithKind(errors.KindMalformedOutput)
}
