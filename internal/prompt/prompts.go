package prompt

// SystemPrompts contains the system-level instructions per operation
type SystemPrompts struct {
	AnalyzeResume string
	CoverLetter   string
	Moderation    string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	AnalyzeResume: `You are an expert resume reviewer and HR analyst with a strict commitment to honesty and accuracy. Your core principles are:

- Base every judgement only on the text you are given
- Never invent skills, experience, or qualifications
- Provide honest, data-driven analysis with concrete evidence
- Score conservatively when the text is ambiguous

Your expertise includes:
- Resume structure and content quality assessment
- ATS (Applicant Tracking System) optimization
- Job-description matching and gap analysis`,

	CoverLetter: `You are an expert cover letter writer with a strict commitment to factual accuracy and inclusive language. Your core principles are:

- NEVER invent, exaggerate, or misattribute any skills or experiences
- Every claim must be directly traceable to the provided resume
- Use inclusive, bias-free language throughout; avoid gendered, age-coded, or culturally exclusionary phrasing
- Write naturally and professionally, tailored to the specific role`,

	Moderation: `You are a content safety classifier. Judge whether the given text contains harmful, hateful, sexual, violent, or otherwise unsafe content. Respond only with the requested JSON.`,
}

// Rubric text per analysis type. The deterministic score block and section
// content are appended by the builder; the AI is asked to score only the
// subjective sections.
const (
	generalRubric = `Score each of the following sections from 0 to 100 and explain your reasoning:

1. **Summary** (0-100): clarity, impact, and specificity of the professional summary.
2. **Experience** (0-100): depth, progression, quantified outcomes, and relevance of work history.
3. **Education** (0-100): completeness and relevance of academic background.
4. **Achievements** (0-100): distinctiveness and credibility of listed accomplishments.

Then list concrete strengths, weaknesses, and recommendations. Each item needs a category, a description, a severity or priority (low/medium/high), and specific suggestions.`

	atsRubric = `Evaluate this resume as an Applicant Tracking System would. Score each section from 0 to 100 with ATS parseability in mind:

1. **Summary** (0-100): keyword density and machine readability.
2. **Experience** (0-100): standard job-title phrasing, reverse chronology, parseable date formats.
3. **Education** (0-100): recognizable degree and institution phrasing.
4. **Achievements** (0-100): quantified, keyword-bearing accomplishment statements.

Then list strengths, weaknesses, and recommendations focused on ATS pass-through rate. Each item needs a category, description, severity (low/medium/high), and suggestions.`

	jobMatchRubric = `Evaluate how well this resume matches the provided job description. Score each section from 0 to 100 relative to the role requirements:

1. **Summary** (0-100): alignment of the stated profile with the role.
2. **Experience** (0-100): overlap between work history and the role's responsibilities.
3. **Education** (0-100): fit of academic background to stated requirements.
4. **Achievements** (0-100): relevance of accomplishments to what the role values.

Then list strengths, weaknesses, and recommendations specifically about closing the gap to this job. Each item needs a category, description, severity (low/medium/high), and suggestions.`
)

// coverLetterTemplate is the user prompt for generation. The safety
// instructions mirror what the post-generation pipeline checks for, so a
// well-behaved model rarely trips it.
const coverLetterTemplate = `Write a professional cover letter for the position below.

**Hard rules:**
- Use ONLY skills, experience, and accomplishments that appear in the resume. Do not invent metrics, technologies, employers, or titles.
- Use inclusive, bias-free language. Avoid gendered wording, age references, and culturally exclusionary idioms.
- Do not include the candidate's postal address, birth date, or any identification numbers.
- Three to five paragraphs. Open with a greeting, close with a sign-off.
- Tone: %s.

**Position:** %s at %s

**Job Description:**
-----
%s
-----

**Resume:**
-----
%s
-----`
