// Package safety runs post-generation checks on AI-produced text: PII
// detection, content moderation, hallucination cross-referencing, bias
// analysis, and structural quality scoring. Everything except moderation is
// a pure function over text; moderation delegates to the optional provider
// port and is skippable without affecting the other analyzers.
package safety

import (
	"regexp"
	"strings"

	"resumelens/internal/types"
)

// PII finding type labels
const (
	PIITypeEmail      = "email"
	PIITypePhone      = "phone"
	PIITypeNationalID = "national_id"
	PIITypeCardNumber = "card_number"
	PIITypeBirthDate  = "birth_date"
)

var (
	piiEmailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	piiPhoneRe = regexp.MustCompile(`(\+?\d{1,3}[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}\b`)
	// SSN-like: 3-2-4 digit groups with separators
	piiNationalIDRe = regexp.MustCompile(`\b\d{3}[\s\-]\d{2}[\s\-]\d{4}\b`)
	// 13-16 digits, optionally grouped in fours
	piiCardRe = regexp.MustCompile(`\b(?:\d[ \-]?){13,16}\b`)
	// Labelled dates: "DOB: 01/02/1990", "born 1990-02-01", "Date of Birth: ..."
	piiBirthDateRe = regexp.MustCompile(`(?i)\b(?:dob|date of birth|born)\b[:\s]*\d{1,4}[/\-.]\d{1,2}[/\-.]\d{1,4}`)
)

// DetectPII scans text for personally identifiable information. Each match
// is returned as a typed finding with the matched value.
func DetectPII(text string) []types.PIIFinding {
	var findings []types.PIIFinding

	add := func(typ string, matches []string) {
		seen := make(map[string]bool)
		for _, m := range matches {
			m = strings.TrimSpace(m)
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			findings = append(findings, types.PIIFinding{Type: typ, Value: m})
		}
	}

	add(PIITypeEmail, piiEmailRe.FindAllString(text, -1))
	add(PIITypeBirthDate, piiBirthDateRe.FindAllString(text, -1))

	// Card-number candidates subsume phone and national-ID shapes, so
	// classify the longest digit runs first and skip narrower overlaps.
	cardMatches := filterByDigitCount(piiCardRe.FindAllString(text, -1), 13, 16)
	add(PIITypeCardNumber, cardMatches)

	for _, m := range piiNationalIDRe.FindAllString(text, -1) {
		if !containedIn(m, cardMatches) {
			add(PIITypeNationalID, []string{m})
		}
	}
	for _, m := range piiPhoneRe.FindAllString(text, -1) {
		if !containedIn(m, cardMatches) {
			add(PIITypePhone, []string{m})
		}
	}

	return findings
}

// filterByDigitCount keeps matches whose digit count falls in [min,max].
// The card regex alone also matches long phone numbers with country codes.
func filterByDigitCount(matches []string, min, max int) []string {
	var out []string
	for _, m := range matches {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= min && digits <= max {
			out = append(out, m)
		}
	}
	return out
}

func containedIn(needle string, haystacks []string) bool {
	needle = strings.TrimSpace(needle)
	for _, h := range haystacks {
		if strings.Contains(h, needle) || strings.Contains(needle, strings.TrimSpace(h)) {
			return true
		}
	}
	return false
}
