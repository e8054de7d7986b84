package safety

import (
	"regexp"
	"strings"

	"resumelens/internal/types"
)

// Claim type labels
const (
	ClaimMetric     = "metric"
	ClaimTechnology = "technology"
	ClaimRoleTitle  = "role_title"
	ClaimCompany    = "company"
)

// Confidence deductions per unverified claim severity
const (
	highSeverityPenalty   = 20
	mediumSeverityPenalty = 10
)

var (
	// Quantities with units: percentages, money, multipliers, year counts
	metricRe = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:%|percent|x\b|million|billion|k\b)|\$\d[\d,]*|\b\d+\+?\s*years?\b`)

	// Role titles: seniority or function words followed by a discipline
	roleTitleRe = regexp.MustCompile(`(?i)\b(?:senior|junior|lead|principal|staff|chief|head of|director of|vice president of)\s+[A-Za-z]+(?:\s+[A-Za-z]+)?`)

	// Proper-noun runs after employment phrasing, e.g. "at Acme Corp"
	companyRe = regexp.MustCompile(`\b(?i:at|with|for|joined)\s+([A-Z][A-Za-z0-9&.]*(?:\s+[A-Z][A-Za-z0-9&.]+){0,2})`)
)

// technologyTerms is the curated dictionary of named technologies the
// detector recognizes in generated text. Matching is case-insensitive and
// word-bounded.
var technologyTerms = []string{
	"Go", "Golang", "Python", "Java", "JavaScript", "TypeScript", "Rust",
	"C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Scala", "SQL",
	"React", "Angular", "Vue", "Node.js", "Django", "Flask", "Spring",
	"Rails", ".NET",
	"Docker", "Kubernetes", "Terraform", "Ansible", "Jenkins", "Git",
	"AWS", "Azure", "GCP", "Lambda", "EC2", "S3",
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "Kafka",
	"RabbitMQ", "GraphQL", "gRPC", "REST",
	"TensorFlow", "PyTorch", "Spark", "Hadoop", "Airflow", "Snowflake",
}

// ambiguousTerms double as ordinary English words, so they only count as
// technology claims when they appear with canonical capitalization.
var ambiguousTerms = map[string]bool{
	"Go": true, "Rust": true, "Swift": true, "React": true, "Spring": true,
	"Rails": true, "Spark": true, "Lambda": true, "Git": true,
}

// companyStopwords are capitalized words that follow "at"/"with" without
// naming an employer.
var companyStopwords = map[string]bool{
	"I": true, "The": true, "A": true, "An": true, "My": true, "Your": true,
	"This": true, "That": true, "Least": true, "Most": true,
}

// DetectHallucinations extracts candidate factual claims from generated
// text and verifies each against the combined source text. Confidence
// starts at 100 and drops 20 per unverified high-severity claim and 10 per
// unverified medium-severity claim, floored at 0. Technology and company
// claims are high severity; metrics and role titles are medium.
func DetectHallucinations(generated, sourceText string) types.HallucinationReport {
	source := strings.ToLower(sourceText)
	var claims []types.Claim

	appendClaim := func(text, typ, severity string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		claims = append(claims, types.Claim{
			Text:     text,
			Type:     typ,
			Severity: severity,
			Verified: verifyClaim(text, source),
		})
	}

	for _, m := range dedupeMatches(metricRe.FindAllString(generated, -1)) {
		appendClaim(m, ClaimMetric, "medium")
	}
	for _, term := range technologyTerms {
		if containsWord(generated, term) {
			appendClaim(term, ClaimTechnology, "high")
		}
	}
	for _, m := range dedupeMatches(roleTitleRe.FindAllString(generated, -1)) {
		appendClaim(m, ClaimRoleTitle, "medium")
	}
	for _, m := range companyRe.FindAllStringSubmatch(generated, -1) {
		name := strings.TrimSpace(m[1])
		if companyStopwords[firstWord(name)] || isTechnologyTerm(name) {
			continue
		}
		appendClaim(name, ClaimCompany, "high")
	}

	confidence := 100
	unverified := 0
	for _, c := range claims {
		if c.Verified {
			continue
		}
		unverified++
		switch c.Severity {
		case "high":
			confidence -= highSeverityPenalty
		default:
			confidence -= mediumSeverityPenalty
		}
	}
	if confidence < 0 {
		confidence = 0
	}

	return types.HallucinationReport{
		Claims:          claims,
		UnverifiedCount: unverified,
		Confidence:      confidence,
	}
}

// verifyClaim checks whether the claim's key tokens appear in the source.
// Single-token claims need a word-bounded occurrence; multi-token claims
// are verified when a majority of their meaningful tokens appear.
func verifyClaim(claim, lowerSource string) bool {
	lower := strings.ToLower(claim)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '+' && r != '#' && r != '.'
	})

	if len(tokens) == 1 {
		return sourceHasToken(lowerSource, tokens[0])
	}
	if strings.Contains(lowerSource, lower) {
		return true
	}

	var meaningful, present int
	for _, tok := range tokens {
		if len(tok) < 2 {
			continue
		}
		meaningful++
		if sourceHasToken(lowerSource, tok) {
			present++
		}
	}
	if meaningful == 0 {
		return false
	}
	return present*2 > meaningful
}

// sourceHasToken looks for the token with word boundaries. Tokens carrying
// regex metacharacters (c++, node.js) use plain substring search.
func sourceHasToken(lowerSource, tok string) bool {
	if regexp.QuoteMeta(tok) != tok {
		return strings.Contains(lowerSource, tok)
	}
	return regexp.MustCompile(`\b` + tok + `\b`).MatchString(lowerSource)
}

// containsWord reports a word-bounded occurrence of the term. Matching is
// case-insensitive except for ambiguous terms, which require canonical
// capitalization. Terms with non-word runes (C++, Node.js) fall back to
// substring matching.
func containsWord(text, term string) bool {
	if regexp.QuoteMeta(term) != term {
		return strings.Contains(strings.ToLower(text), strings.ToLower(term))
	}
	pattern := `\b` + term + `\b`
	if !ambiguousTerms[term] {
		pattern = `(?i)` + pattern
	}
	return regexp.MustCompile(pattern).MatchString(text)
}

func dedupeMatches(matches []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range matches {
		key := strings.ToLower(strings.TrimSpace(m))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// isTechnologyTerm filters company candidates like "with Kubernetes" that
// actually name a technology.
func isTechnologyTerm(name string) bool {
	for _, term := range technologyTerms {
		if strings.EqualFold(name, term) || strings.EqualFold(firstWord(name), term) {
			return true
		}
	}
	return false
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
