package ai

import (
	"fmt"
	"strings"

	"resumeforge/internal/config"
	"resumeforge/internal/types"
)

// PromptTemplate is a system instruction plus a user prompt with %s placeholders
type PromptTemplate struct {
	System string
	User   string
}

// DefaultPrompts are used when neither a prompt file nor the config supplies one.
// User placeholders, in order:
//
//	keywords:    job description
//	optimize:    keywords, résumé, job description
//	coverLetter: résumé, job description, tone
//	interview:   résumé, job description
//	multiJob:    résumé, numbered job descriptions
var DefaultPrompts = map[string]PromptTemplate{
	config.OpKeywords: {
		System: `You are an expert ATS analyzer. Extract the keywords and skills an applicant tracking system would screen for.
Respond ONLY with valid JSON, no text before or after it:
{"keywords": ["keyword1", "keyword2"], "skills": ["skill1", "skill2"]}`,
		User: `Extract keywords and required skills from this job description. Respond with JSON only:

%s`,
	},

	config.OpOptimize: {
		System: `You are an expert resume optimizer with a strict commitment to honesty. Never invent skills or experience that are not in the source resume.
Respond ONLY with valid JSON, no text before or after it:
{"optimizedContent": "full optimized resume text", "improvements": [{"section": "section name", "before": "old text", "after": "new text", "reasoning": "why"}], "keywordMatches": ["keyword1"]}

Rules:
1. SUMMARY: open with impact, tech stack and fit for this role in 3-4 sentences. No filler phrases.
2. EXPERIENCE: bullets follow situation, action and result without labels, with measurable outcomes and scale.
3. PROJECTS: at least two bullets each, framed as problems solved with results.
4. SKILLS and CERTIFICATIONS: keep what strengthens fit for the job, mirror the job's terminology.
5. STYLE: concise, no "responsible for" or "worked on", keep section headers in UPPER CASE on their own line.
6. LENGTH: roughly one page, 400-500 words.`,
		User: `Optimize this resume for the job description. Include these keywords where they are truthful: %s. Respond with JSON only.

Resume:
%s

Job Description:
%s`,
	},

	config.OpCoverLetter: {
		System: `You are an expert cover letter writer. Write a personalized letter that opens with a hook tying the candidate's impact to the company's mission, supports it with specific examples that match the job requirements, and closes with a clear call to action. Keep it to 250-300 words, weave in keywords from the job naturally and use the tone the user asks for.
Respond ONLY with valid JSON:
{"content": "cover letter text", "tone": "tone used", "keyPoints": ["point1", "point2"]}`,
		User: `Write a tailored cover letter based on:

Resume Content:
%s

Job Description:
%s

Tone: %s`,
	},

	config.OpInterview: {
		System: `You are an expert interview coach. Generate interview questions with strong sample answers. Mix behavioral, technical, situational and leadership questions across easy, medium and hard difficulty. Behavioral answers follow the STAR method and every answer uses specific examples from the resume.
Respond ONLY with valid JSON:
{"questions": [{"question": "text", "suggestedAnswer": "text", "category": "behavioral|technical|situational|leadership", "difficulty": "easy|medium|hard"}]}`,
		User: `Generate 10-12 interview questions with detailed sample answers based on:

Candidate Resume:
%s

Job Description:
%s`,
	},

	config.OpMultiJob: {
		System: `You analyze several job postings to build a master resume strategy. Identify common themes and per-job differences. Each job title appears only once in jobSpecificInsights.
Respond ONLY with valid JSON:
{"commonKeywords": ["keyword1"], "masterOptimization": "strategy text", "jobSpecificInsights": [{"title": "job title", "uniqueKeywords": ["keyword"], "matchScore": 85}]}`,
		User: `Analyze these job descriptions to create a master resume strategy. Each job title must appear only once.

Current Resume:
%s

Job Descriptions:
%s`,
	},
}

// prompts resolves the system and user prompt for an operation
type prompts struct {
	store *config.PromptStore
	ops   map[string]config.ResolvedOperation
}

func newPrompts(cfg *config.Config, store *config.PromptStore) prompts {
	ops := make(map[string]config.ResolvedOperation, len(config.Operations))
	for _, op := range config.Operations {
		ops[op] = cfg.Operation(op)
	}
	return prompts{store: store, ops: ops}
}

// build returns the system instruction and the formatted user prompt for op
func (p prompts) build(op string, args ...any) (string, string) {
	loaded := p.store.Get(op)
	opCfg := p.ops[op]
	def := DefaultPrompts[op]

	system := resolvePrompt(loaded.System, opCfg.SystemPrompt, def.System)
	if !opCfg.UseSystemPrompts {
		system = ""
	}
	user := fmt.Sprintf(resolvePrompt(loaded.User, opCfg.UserPrompt, def.User), args...)
	return system, user
}

// resolvePrompt selects the prompt by priority: file, then config, then default
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

// formatJobs numbers the postings for the multi-job prompt
func formatJobs(jobs []types.JobPosting) string {
	var sb strings.Builder
	for i, job := range jobs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%d. %s:\n%s", i+1, job.Title, job.Description)
	}
	return sb.String()
}
