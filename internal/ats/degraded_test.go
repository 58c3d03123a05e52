package ats

import (
	"reflect"
	"strings"
	"testing"

	"resumeforge/internal/types"
)

func TestDegradedScoreRanges(t *testing.T) {
	d := NewDegradedWithSeed(42)

	for range 200 {
		if s := d.AnalysisScore(); s < 70 || s > 99 {
			t.Fatalf("AnalysisScore() = %d, want 70-99", s)
		}
		if s := d.OptimizationScore(MethodJobscan); s < 75 || s > 89 {
			t.Fatalf("OptimizationScore(jobscan) = %d, want 75-89", s)
		}
		if s := d.OptimizationScore(MethodResumeworded); s < 70 || s > 89 {
			t.Fatalf("OptimizationScore(resumeworded) = %d, want 70-89", s)
		}
		if s := d.MultiJobScore(); s < 75 || s > 94 {
			t.Fatalf("MultiJobScore() = %d, want 75-94", s)
		}
	}
}

func TestDegradedSeedIsRepeatable(t *testing.T) {
	a := NewDegradedWithSeed(7)
	b := NewDegradedWithSeed(7)
	for range 20 {
		if x, y := a.AnalysisScore(), b.AnalysisScore(); x != y {
			t.Fatalf("same seed produced %d and %d", x, y)
		}
	}
}

func TestDegradedDoesNotAffectScorers(t *testing.T) {
	in := Input{ResumeText: scenarioResume(), Keywords: []string{"python", "aws"}}
	before := Score(in, MethodJobscan)

	d := NewDegraded()
	for range 10 {
		d.Optimize(in.ResumeText, in.Keywords, MethodJobscan)
	}

	if after := Score(in, MethodJobscan); !reflect.DeepEqual(before, after) {
		t.Errorf("scoring changed after degraded calls: %+v vs %+v", before, after)
	}
}

func TestDegradedExtractKeywords(t *testing.T) {
	d := NewDegradedWithSeed(1)

	tests := []struct {
		name       string
		job        string
		wantKW     []string
		wantSkills []string
	}{
		{
			name:       "vocabulary hits in vocabulary order",
			job:        "We need Python, React and SQL. Teamwork matters.",
			wantKW:     []string{"python", "react", "sql", "teamwork"},
			wantSkills: []string{"python", "react", "sql", "teamwork"},
		},
		{
			name:       "java also matches javascript",
			job:        "JavaScript engineer",
			wantKW:     []string{"javascript", "java"},
			wantSkills: []string{"javascript", "java"},
		},
		{
			name:       "defaults when nothing matches",
			job:        "Barista wanted",
			wantKW:     FallbackDefaultKeywords,
			wantSkills: FallbackDefaultKeywords,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.ExtractKeywords(tt.job)
			if !reflect.DeepEqual(got.Keywords, tt.wantKW) {
				t.Errorf("Keywords = %v, want %v", got.Keywords, tt.wantKW)
			}
			if !reflect.DeepEqual(got.Skills, tt.wantSkills) {
				t.Errorf("Skills = %v, want %v", got.Skills, tt.wantSkills)
			}
		})
	}
}

func TestDegradedOptimize(t *testing.T) {
	d := NewDegradedWithSeed(3)
	resume := "Jane Doe\nSummary: experienced developer\nExperience\nResponsible for the billing service. Worked on search.\n"
	keywords := []string{"python", "aws", "docker", "sql", "react", "agile"}

	opt, score := d.Optimize(resume, keywords, MethodResumeworded)

	if score < 70 || score > 89 {
		t.Errorf("score = %d, want 70-89", score)
	}
	if !strings.Contains(opt.OptimizedContent, "SUMMARY\nImpact-driven software engineer with expertise in python, aws, docker.") {
		t.Errorf("summary not rewritten:\n%s", opt.OptimizedContent)
	}
	if strings.Contains(opt.OptimizedContent, "experienced developer") {
		t.Errorf("original summary line should be replaced:\n%s", opt.OptimizedContent)
	}
	if !strings.Contains(opt.OptimizedContent, "Improved system performance by 25%") {
		t.Errorf("filler phrase not replaced:\n%s", opt.OptimizedContent)
	}
	if !strings.Contains(opt.OptimizedContent, "Delivered feature that increased user engagement") {
		t.Errorf("second filler phrase not replaced:\n%s", opt.OptimizedContent)
	}
	if !strings.HasSuffix(opt.OptimizedContent, "Enhanced with ATS-optimized keywords: python, aws, docker, sql, react") {
		t.Errorf("keyword line missing:\n%s", opt.OptimizedContent)
	}
	if len(opt.Improvements) != 3 {
		t.Errorf("Improvements = %d, want 3", len(opt.Improvements))
	}
	if !reflect.DeepEqual(opt.KeywordMatches, keywords[:5]) {
		t.Errorf("KeywordMatches = %v", opt.KeywordMatches)
	}
}

func TestReplaceFillers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"upper case", "RESPONSIBLE FOR billing.", "Improved system performance by 25% and reduced deployment time by 40%."},
		{"keeps surroundings", "Acme: worked on search. Done", "Acme: Delivered feature that increased user engagement by 35% and reduced support tickets by 50%. Done"},
		{"stops at line end", "helped with ops\nmore.", "helped with ops\nmore."},
		{"long s is not s", "reſponsible for billing.", "reſponsible for billing."},
		{"multibyte before match", "Café – Helped With hiring.", "Café – Collaborated on project that generated $500K in additional revenue and improved customer satisfaction scores by 20%."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := replaceFillers(tt.text); got != tt.want {
				t.Errorf("replaceFillers(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDegradedAnalyzeMultipleJobs(t *testing.T) {
	d := NewDegradedWithSeed(9)
	jobs := []types.JobPosting{
		{Title: "Frontend Engineer"},
		{Title: "Full Stack Cloud Developer"},
	}

	got := d.AnalyzeMultipleJobs(jobs)

	if !got.Degraded {
		t.Error("expected Degraded flag")
	}
	if len(got.CommonKeywords) != 5 {
		t.Errorf("CommonKeywords = %v", got.CommonKeywords)
	}
	want := [][]string{
		{"React", "Backend", "Docker"},
		{"Node.js", "Full Stack", "AWS"},
	}
	for i, insight := range got.JobSpecificInsights {
		if !reflect.DeepEqual(insight.UniqueKeywords, want[i]) {
			t.Errorf("insight %d keywords = %v, want %v", i, insight.UniqueKeywords, want[i])
		}
		if insight.MatchScore < 75 || insight.MatchScore > 94 {
			t.Errorf("insight %d score = %d", i, insight.MatchScore)
		}
	}
}
