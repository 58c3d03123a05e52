// Package aitest provides a scriptable ai.Provider for tests.
package aitest

import (
	"context"
	stderrors "errors"
	"sync"

	"resumeforge/internal/ai"
	"resumeforge/internal/types"
)

// ErrUnavailable is returned by unset operations of a Fake
var ErrUnavailable = stderrors.New("aitest: operation not scripted")

// Fake is an ai.Provider whose operations are plain function fields. Unset
// fields fail with ErrUnavailable, which exercises the degraded paths.
type Fake struct {
	ExtractKeywordsFunc func(ctx context.Context, jobText string) (*types.KeywordExtraction, error)
	OptimizeFunc        func(ctx context.Context, resumeText, jobText string, keywords []string) (*types.Optimization, error)
	CoverLetterFunc     func(ctx context.Context, resumeText, jobText, tone string) (*types.CoverLetterDraft, error)
	InterviewFunc       func(ctx context.Context, resumeText, jobText string) (*types.InterviewPrep, error)
	MultiJobFunc        func(ctx context.Context, resumeText string, jobs []types.JobPosting) (*types.MultiJobAnalysis, error)

	mu    sync.Mutex
	calls map[string]int
}

var _ ai.Provider = (*Fake)(nil)

func (f *Fake) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
}

// Calls returns how often op was invoked
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *Fake) ExtractKeywords(ctx context.Context, jobText string) (*types.KeywordExtraction, error) {
	f.record("keywords")
	if f.ExtractKeywordsFunc == nil {
		return nil, ErrUnavailable
	}
	return f.ExtractKeywordsFunc(ctx, jobText)
}

func (f *Fake) Optimize(ctx context.Context, resumeText, jobText string, keywords []string) (*types.Optimization, error) {
	f.record("optimize")
	if f.OptimizeFunc == nil {
		return nil, ErrUnavailable
	}
	return f.OptimizeFunc(ctx, resumeText, jobText, keywords)
}

func (f *Fake) GenerateCoverLetter(ctx context.Context, resumeText, jobText, tone string) (*types.CoverLetterDraft, error) {
	f.record("coverLetter")
	if f.CoverLetterFunc == nil {
		return nil, ErrUnavailable
	}
	return f.CoverLetterFunc(ctx, resumeText, jobText, tone)
}

func (f *Fake) GenerateInterviewQuestions(ctx context.Context, resumeText, jobText string) (*types.InterviewPrep, error) {
	f.record("interview")
	if f.InterviewFunc == nil {
		return nil, ErrUnavailable
	}
	return f.InterviewFunc(ctx, resumeText, jobText)
}

func (f *Fake) AnalyzeMultipleJobs(ctx context.Context, resumeText string, jobs []types.JobPosting) (*types.MultiJobAnalysis, error) {
	f.record("multiJob")
	if f.MultiJobFunc == nil {
		return nil, ErrUnavailable
	}
	return f.MultiJobFunc(ctx, resumeText, jobs)
}

func (f *Fake) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Provider: "fake", Name: "fake-model", Available: true}
}

func (f *Fake) Close() error { return nil }
