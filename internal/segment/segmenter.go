// Package segment splits raw resume text into labeled sections using layered
// regular-expression heuristics. It performs no I/O and no AI calls; missing
// sections come back empty rather than as errors.
package segment

import (
	"regexp"
	"strings"

	"resumelens/internal/types"
)

var (
	emailRe   = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe   = regexp.MustCompile(`(\+?\d{1,3}[\s.\-]?)?(\(?\d{3}\)?[\s.\-]?)\d{3}[\s.\-]?\d{4}`)
	profileRe = regexp.MustCompile(`(?i)(https?://)?(www\.)?(linkedin\.com/in/|github\.com/|gitlab\.com/|bitbucket\.org/)[A-Za-z0-9_\-./]+`)
	// "City, ST" or "City, Country" on its own or after a label
	locationRe = regexp.MustCompile(`(?m)(?:Location|Address|Based in)[:\s]+([^\n]+)|^([A-Z][a-zA-Z]+(?: [A-Z][a-zA-Z]+)?,\s*(?:[A-Z]{2}|[A-Z][a-zA-Z]+))\s*$`)

	bulletRe = regexp.MustCompile(`^[\s]*[-*•▪◦·]\s*`)
)

// sectionHeader maps a canonical section name to the header spellings that
// introduce it. Matching is per line, case insensitive, tolerating trailing
// colons and decoration.
type sectionHeader struct {
	name    string
	pattern *regexp.Regexp
}

var sectionHeaders = []sectionHeader{
	{types.SectionSummary, regexp.MustCompile(`(?i)^\s*(professional\s+summary|summary|objective|profile|about\s+me)\s*:?\s*$`)},
	{types.SectionExperience, regexp.MustCompile(`(?i)^\s*((?:professional|work)\s+experience|experience|employment(?:\s+history)?|work\s+history)\s*:?\s*$`)},
	{types.SectionEducation, regexp.MustCompile(`(?i)^\s*(education|academic\s+background|qualifications)\s*:?\s*$`)},
	{types.SectionSkills, regexp.MustCompile(`(?i)^\s*((?:technical|core)\s+skills|skills|technologies|competencies)\s*:?\s*$`)},
	{types.SectionAchievements, regexp.MustCompile(`(?i)^\s*(achievements|accomplishments|awards|honors)\s*:?\s*$`)},
}

// headerAt records where a known header starts in the line slice
type headerAt struct {
	name string
	line int
}

// Segment extracts the section bundle from raw resume text
func Segment(text string) *types.SectionBundle {
	bundle := &types.SectionBundle{
		Contact: extractContact(text),
	}

	lines := strings.Split(text, "\n")
	headers := findHeaders(lines)

	for _, h := range headers {
		bundle.DetectedHeaders = append(bundle.DetectedHeaders, h.name)
	}

	// Section body runs from the line after its header to the next known
	// header or end of text.
	for i, h := range headers {
		end := len(lines)
		if i+1 < len(headers) {
			end = headers[i+1].line
		}
		body := strings.TrimSpace(strings.Join(lines[h.line+1:end], "\n"))
		if body == "" {
			continue
		}

		switch h.name {
		case types.SectionSummary:
			bundle.Summary = body
		case types.SectionExperience:
			bundle.Experience = body
		case types.SectionEducation:
			bundle.Education = body
		case types.SectionSkills:
			bundle.Skills = splitSkills(body)
		case types.SectionAchievements:
			bundle.Achievements = splitItems(body)
		}
	}

	return bundle
}

// findHeaders returns every recognized section header in line order. A
// section name is reported once; repeated headers keep the first occurrence.
func findHeaders(lines []string) []headerAt {
	var found []headerAt
	seen := make(map[string]bool)

	for i, line := range lines {
		for _, h := range sectionHeaders {
			if seen[h.name] {
				continue
			}
			if h.pattern.MatchString(line) {
				found = append(found, headerAt{name: h.name, line: i})
				seen[h.name] = true
				break
			}
		}
	}
	return found
}

// extractContact pulls contact fields from anywhere in the text; resumes
// rarely label the contact block so pattern matching runs over the whole
// document.
func extractContact(text string) *types.ContactInfo {
	contact := &types.ContactInfo{
		Email:      emailRe.FindString(text),
		ProfileURL: profileRe.FindString(text),
	}

	// Phone matching is done line by line to avoid picking digits out of
	// metric-heavy experience bullets.
	for _, line := range strings.Split(text, "\n") {
		if m := phoneRe.FindString(line); m != "" && !looksLikeDateRange(line) {
			contact.Phone = strings.TrimSpace(m)
			break
		}
	}

	if m := locationRe.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			contact.Location = strings.TrimSpace(m[1])
		} else {
			contact.Location = strings.TrimSpace(m[2])
		}
	}

	if contact.Email == "" && contact.Phone == "" && contact.ProfileURL == "" && contact.Location == "" {
		return nil
	}
	return contact
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// looksLikeDateRange filters lines whose digit runs are years, not phones
func looksLikeDateRange(line string) bool {
	return len(yearRe.FindAllString(line, -1)) >= 2
}

// splitSkills breaks a skills section body into distinct skill phrases.
// Bodies come as comma lists, bullet lists, or one skill per line.
func splitSkills(body string) []string {
	var raw []string
	for _, line := range strings.Split(body, "\n") {
		line = bulletRe.ReplaceAllString(line, "")
		// Drop "Category:" prefixes like "Languages: Go, Python"
		if idx := strings.Index(line, ":"); idx >= 0 && idx < 40 {
			line = line[idx+1:]
		}
		for _, part := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == '|' || r == '/'
		}) {
			raw = append(raw, part)
		}
	}

	var skills []string
	seen := make(map[string]bool)
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || len(s) > 60 {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, s)
	}
	return skills
}

// splitItems breaks a section body into bullet or line items
func splitItems(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// CanonicalSections are the four headers the formatting scorer looks for
var CanonicalSections = []string{
	types.SectionSummary,
	types.SectionExperience,
	types.SectionEducation,
	types.SectionSkills,
}

// CountCanonical returns how many of the four canonical sections are present
// in the detected header list.
func CountCanonical(detected []string) int {
	present := make(map[string]bool, len(detected))
	for _, d := range detected {
		present[d] = true
	}
	n := 0
	for _, c := range CanonicalSections {
		if present[c] {
			n++
		}
	}
	return n
}
