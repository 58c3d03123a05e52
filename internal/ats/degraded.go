package ats

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"resumeforge/internal/types"
)

// Degraded produces low-fidelity substitutes for the AI collaborators when they
// are unavailable: a fixed vocabulary scan and scores drawn from plausible ranges.
// It owns its random source; the real scorers never consult it.
type Degraded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDegraded returns a fallback seeded from the clock.
func NewDegraded() *Degraded {
	return NewDegradedWithSeed(uint64(time.Now().UnixNano()))
}

// NewDegradedWithSeed returns a fallback with a repeatable random sequence.
func NewDegradedWithSeed(seed uint64) *Degraded {
	return &Degraded{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// between returns a uniform integer in [lo, lo+span).
func (d *Degraded) between(lo, span int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return lo + d.rng.IntN(span)
}

// AnalysisScore is the placeholder job analysis score, 70-99.
func (d *Degraded) AnalysisScore() int {
	return d.between(70, 30)
}

// OptimizationScore is the placeholder tailoring score: 75-89 for jobscan, 70-89 otherwise.
func (d *Degraded) OptimizationScore(method Method) int {
	if method == MethodJobscan {
		return d.between(75, 15)
	}
	return d.between(70, 20)
}

// MultiJobScore is the placeholder per-job match score, 75-94.
func (d *Degraded) MultiJobScore() int {
	return d.between(75, 20)
}

// ExtractKeywords scans the job text for the fallback vocabulary.
func (d *Degraded) ExtractKeywords(jobText string) types.KeywordExtraction {
	lower := strings.ToLower(jobText)
	keywords := []string{}
	for _, k := range FallbackVocabulary {
		if strings.Contains(lower, k) {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		keywords = append(keywords, FallbackDefaultKeywords...)
	}
	return types.KeywordExtraction{
		Keywords: keywords,
		Skills:   firstN(keywords, 5),
	}
}

var (
	summaryHeaders = []string{"summary", "about", "profile"}
	fillerPattern  = regexp.MustCompile(`(responsible for|worked on|helped with)[^\n\r\x{2028}\x{2029}]*?\.`)
)

var fillerReplacements = []struct {
	phrase      string
	replacement string
}{
	{"responsible for", "Improved system performance by 25% and reduced deployment time by 40%."},
	{"worked on", "Delivered feature that increased user engagement by 35% and reduced support tickets by 50%."},
	{"helped with", "Collaborated on project that generated $500K in additional revenue and improved customer satisfaction scores by 20%."},
}

// replaceFillers swaps filler sentences for quantified statements. Matching is
// ASCII case-insensitive on an asciiLower copy, whose byte offsets line up with text.
func replaceFillers(text string) string {
	lower := asciiLower(text)
	var b strings.Builder
	last := 0
	for _, loc := range fillerPattern.FindAllStringIndex(lower, -1) {
		b.WriteString(text[last:loc[0]])
		match := lower[loc[0]:loc[1]]
		replaced := text[loc[0]:loc[1]]
		for _, f := range fillerReplacements {
			if strings.Contains(match, f.phrase) {
				replaced = f.replacement
				break
			}
		}
		b.WriteString(replaced)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// Optimize rewrites the résumé with fixed heuristics: a summary hook, filler
// phrases swapped for quantified statements and an appended keyword line.
// Score is a placeholder from OptimizationScore, not a computed ATS score.
func (d *Degraded) Optimize(resumeText string, keywords []string, method Method) (types.Optimization, int) {
	summary := fmt.Sprintf("Impact-driven software engineer with expertise in %s. "+
		"Passionate about building scalable applications and optimizing system performance. "+
		"Demonstrated track record of improving API latency by 30%% and increasing test coverage from 65%% to 90%%.",
		strings.Join(firstN(keywords, 3), ", "))

	content := replaceHeaderSpans(resumeText, summaryHeaders, "SUMMARY\n"+summary)
	content = replaceFillers(content)
	content += "\n\nEnhanced with ATS-optimized keywords: " + strings.Join(firstN(keywords, 5), ", ")

	opt := types.Optimization{
		OptimizedContent: content,
		Improvements: []types.Improvement{
			{
				Section:   "Summary",
				Before:    "Experienced software developer",
				After:     summary,
				Reasoning: "Added an impact-driven hook with measurable outcomes and relevant keywords",
			},
			{
				Section:   "Experience",
				Before:    "Responsible for developing features",
				After:     "Improved API latency by 30% and increased test coverage from 65% to 90%",
				Reasoning: "Replaced generic responsibilities with measurable results",
			},
			{
				Section:   "Projects",
				Before:    "Built application with React and Node.js",
				After:     "Solved user onboarding friction by building React/Node.js application, reducing drop-off rate by 45% and increasing conversion by 28%",
				Reasoning: "Turned the project description into an impact story with measurable results",
			},
		},
		KeywordMatches: firstN(keywords, 5),
	}
	return opt, d.OptimizationScore(method)
}

// AnalyzeMultipleJobs builds a generic master résumé strategy from job titles.
func (d *Degraded) AnalyzeMultipleJobs(jobs []types.JobPosting) types.MultiJobAnalysis {
	insights := make([]types.JobInsight, 0, len(jobs))
	for _, job := range jobs {
		title := strings.ToLower(job.Title)
		unique := []string{
			pick(strings.Contains(title, "frontend"), "React", "Node.js"),
			pick(strings.Contains(title, "full"), "Full Stack", "Backend"),
			pick(strings.Contains(title, "cloud"), "AWS", "Docker"),
		}
		insights = append(insights, types.JobInsight{
			Title:          job.Title,
			UniqueKeywords: unique,
			MatchScore:     d.MultiJobScore(),
		})
	}
	return types.MultiJobAnalysis{
		CommonKeywords:      firstN(fallbackCommonKeywords, 5),
		MasterOptimization:  fallbackMasterOptimization,
		JobSpecificInsights: insights,
		Degraded:            true,
	}
}

const fallbackMasterOptimization = "Focus on demonstrating full-stack development skills with modern technologies. " +
	"Emphasize measurable impact and scalable solutions. " +
	"Include both frontend and backend expertise with cloud deployment experience."

// replaceHeaderSpans replaces every header span with repl, scanning left to right.
func replaceHeaderSpans(text string, headers []string, repl string) string {
	var b strings.Builder
	pos := 0
	for pos <= len(text) {
		start, end, ok := headerSpan(text, headers, pos)
		if !ok {
			break
		}
		b.WriteString(text[pos:start])
		b.WriteString(repl)
		pos = end
	}
	b.WriteString(text[pos:])
	return b.String()
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return append([]string{}, items...)
	}
	return append([]string{}, items[:n]...)
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
