package types

// AnalysisType selects the scoring rubric sent to the AI provider
type AnalysisType string

const (
	AnalysisGeneral  AnalysisType = "general"
	AnalysisATS      AnalysisType = "ats"
	AnalysisJobMatch AnalysisType = "job_match"
)

// Valid reports whether the analysis type is one of the supported variants
func (t AnalysisType) Valid() bool {
	switch t {
	case AnalysisGeneral, AnalysisATS, AnalysisJobMatch:
		return true
	}
	return false
}

// Section score keys used throughout the scoring pipeline
const (
	SectionContactInfo  = "contactInfo"
	SectionSummary      = "summary"
	SectionExperience   = "experience"
	SectionEducation    = "education"
	SectionSkills       = "skills"
	SectionAchievements = "achievements"
	SectionFormatting   = "formatting"
)

// ContactInfo holds the contact fields extracted from a resume
type ContactInfo struct {
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
	Location   string `json:"location,omitempty"`
}

// SectionBundle is the segmenter output: extracted section bodies plus the
// canonical headers that were recognized. Missing sections stay empty rather
// than failing segmentation.
type SectionBundle struct {
	Contact         *ContactInfo `json:"contact,omitempty"`
	Summary         string       `json:"summary,omitempty"`
	Experience      string       `json:"experience,omitempty"`
	Education       string       `json:"education,omitempty"`
	Skills          []string     `json:"skills,omitempty"`
	Achievements    []string     `json:"achievements,omitempty"`
	DetectedHeaders []string     `json:"detectedHeaders,omitempty"`
}

// ScoreBreakdown maps section keys to integer scores in [0,100]
type ScoreBreakdown map[string]int

// SkillMatch records the best chunk match for one skill phrase
type SkillMatch struct {
	Skill      string  `json:"skill"`
	Similarity float64 `json:"similarity"`
	Relevance  int     `json:"relevance"`
}

// RelevanceMetadata is diagnostic output from the relevance engine. It is
// attached to results for observability and never drives control flow.
type RelevanceMetadata struct {
	Method         string       `json:"method"` // "embedding" or "keyword"
	SkillCount     int          `json:"skillCount"`
	ChunkCount     int          `json:"chunkCount"`
	MatchedSkills  int          `json:"matchedSkills"`
	MeanSimilarity float64      `json:"meanSimilarity"`
	TopMatches     []SkillMatch `json:"topMatches,omitempty"`
	ElapsedMS      int64        `json:"elapsedMs"`
}

// Finding is one structured strength, weakness or recommendation
type Finding struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Severity    string   `json:"severity,omitempty"` // "low", "medium", "high"
	Suggestions []string `json:"suggestions,omitempty"`
}

// SkillsAnalysis carries the skills dimension with its relevance diagnostics
type SkillsAnalysis struct {
	Score     int                `json:"score"`
	Detected  []string           `json:"detected,omitempty"`
	Missing   []string           `json:"missing,omitempty"`
	Relevance *RelevanceMetadata `json:"relevance,omitempty"`
}

// AnalysisResult is the complete output of one analysis call. Instances are
// immutable once produced; a cache hit returns a fresh copy with Cached set.
type AnalysisResult struct {
	OverallScore    int            `json:"overallScore"`
	SectionScores   ScoreBreakdown `json:"sectionScores"`
	Strengths       []Finding      `json:"strengths"`
	Weaknesses      []Finding      `json:"weaknesses"`
	Recommendations []Finding      `json:"recommendations"`
	SkillsAnalysis  SkillsAnalysis `json:"skillsAnalysis"`
	AnalysisType    AnalysisType   `json:"analysisType"`
	Cached          bool           `json:"cached"`
	Fallback        bool           `json:"fallback"`
	Warnings        []string       `json:"warnings,omitempty"`
}

// PIIFinding is one detected piece of personally identifiable information
type PIIFinding struct {
	Type  string `json:"type"` // "email", "phone", "national_id", "card_number", "birth_date"
	Value string `json:"value"`
}

// ModerationResult is the verdict from the moderation port. Skipped is set
// when no moderation provider is configured; the text is then assumed safe.
type ModerationResult struct {
	Flagged    bool     `json:"flagged"`
	Categories []string `json:"categories,omitempty"`
	Skipped    bool     `json:"skipped"`
}

// Claim is one factual assertion extracted from generated text
type Claim struct {
	Text     string `json:"text"`
	Type     string `json:"type"` // "metric", "technology", "role_title", "company"
	Severity string `json:"severity"`
	Verified bool   `json:"verified"`
}

// HallucinationReport cross-references generated claims against source text
type HallucinationReport struct {
	Claims          []Claim `json:"claims,omitempty"`
	UnverifiedCount int     `json:"unverifiedCount"`
	Confidence      int     `json:"confidence"` // 0-100, starts at 100
}

// BiasReport summarizes coded-language analysis of generated text
type BiasReport struct {
	HasBias    bool           `json:"hasBias"`
	Categories []string       `json:"categories,omitempty"` // "gender", "age", "cultural", "socioeconomic"
	TermCounts map[string]int `json:"termCounts,omitempty"`
	Score      int            `json:"score"` // 0-100
	Grade      string         `json:"grade"` // A, B, C, D
}

// SafetyReport aggregates the four analyzers plus the structural quality
// score. Computed fresh per generation; embedded in GenerationMetadata.
type SafetyReport struct {
	PIIFindings    []PIIFinding        `json:"piiFindings,omitempty"`
	Moderation     ModerationResult    `json:"moderation"`
	Hallucination  HallucinationReport `json:"hallucination"`
	Bias           BiasReport          `json:"bias"`
	QualityScore   int                 `json:"qualityScore"`
	SafetyScore    int                 `json:"safetyScore"`
	IsReliable     bool                `json:"isReliable"`
	Grade          string              `json:"grade"`
	Recommendation string              `json:"recommendation"`
}

// GenerationMetadata describes one generated artifact
type GenerationMetadata struct {
	WordCount      int                 `json:"wordCount"`
	CharacterCount int                 `json:"characterCount"`
	TokensUsed     int64               `json:"tokensUsed"`
	Cost           float64             `json:"cost"`
	QualityScore   int                 `json:"qualityScore"`
	Moderation     ModerationResult    `json:"moderation"`
	Hallucination  HallucinationReport `json:"hallucination"`
	Bias           BiasReport          `json:"bias"`
}

// GenerationResult is the complete output of one cover letter generation
type GenerationResult struct {
	Content  string             `json:"content"`
	Metadata GenerationMetadata `json:"metadata"`
	Warnings []string           `json:"warnings,omitempty"`
	Issues   []string           `json:"issues,omitempty"`
	Cached   bool               `json:"cached"`
	Fallback bool               `json:"fallback"`
}

// GenerationInput holds all parameters of one cover letter request. The
// cache key is a content hash over every field.
type GenerationInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
	Tone           string `json:"tone"`
}
