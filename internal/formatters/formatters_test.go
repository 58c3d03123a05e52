package formatters

import (
	"strings"
	"testing"

	"resumeforge/internal/ats"
	"resumeforge/internal/document"
	"resumeforge/internal/tailor"
	"resumeforge/internal/types"
)

func TestRegistryFormats(t *testing.T) {
	r := NewFormatterRegistry()

	report := &tailor.ScoreReport{
		Result: ats.Result{Method: ats.MethodJobscan, Overall: 72, MatchedKeywords: []string{"go"}},
		Scores: map[string]int{"keywordMatch": 60, "format": 90, "overall": 72},
	}
	tailored := &types.TailorOutput{
		TailoredContent: "Jane Doe\nSKILLS\nGo",
		Improvements:    []types.Improvement{{Section: "Skills", Before: "Go", After: "Go, Kubernetes", Reasoning: "job keyword"}},
		ScoringMethod:   "resumeworded",
		ATSScore:        81,
		Degraded:        true,
	}
	sections := []document.Section{{Title: "EXPERIENCE", Content: []string{
		document.SubsectionMarker + "Engineer at Acme",
		document.ContentMarker + "Built APIs",
	}}}
	multi := &types.MultiJobAnalysis{
		CommonKeywords:      []string{"Go"},
		MasterOptimization:  "lead with Go",
		JobSpecificInsights: []types.JobInsight{{Title: "Backend", MatchScore: 80}},
	}

	tests := []struct {
		name   string
		data   any
		format string
		want   []string
	}{
		{"score text", report, "text", []string{"Overall: 72/100", "keywordMatch", "Missing keywords: (none)"}},
		{"score markdown", report, "markdown", []string{"# ATS Score", "| format | 90 |"}},
		{"score json", report, "json", []string{`"overall": 72`, `"breakdown"`}},
		{"tailor text", tailored, "text", []string{"=== TAILORED RESUME ===", "Score: 81/100", "1. [Skills] job keyword", "degraded result"}},
		{"tailor markdown", tailored, "markdown", []string{"# Tailored Resume", "### Skills", "**After:** Go, Kubernetes"}},
		{"sections text", sections, "text", []string{"=== EXPERIENCE ===", "Engineer at Acme\n", "    Built APIs"}},
		{"sections markdown", sections, "markdown", []string{"## EXPERIENCE", "**Engineer at Acme**", "- Built APIs"}},
		{"multi text", multi, "text", []string{"Common keywords: Go", "- Backend (match 80/100)"}},
		{"multi markdown", multi, "markdown", []string{"| Backend | 80 |"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := NewFormatterRegistry()
	if _, err := r.Format(struct{}{}, "text"); err == nil {
		t.Error("expected error for a type without a text formatter")
	}
	if _, err := r.Format(&types.TailorOutput{}, "yaml"); err == nil {
		t.Error("expected error for an unknown format")
	}
	got := r.GetSupportedFormats()
	want := []string{"json", "markdown", "text"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("formats = %v, want %v", got, want)
	}
}
