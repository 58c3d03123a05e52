package ai

import (
	"context"
	"time"

	"resumeforge/internal/types"
)

// Provider is the AI collaborator behind keyword extraction, résumé
// optimisation and the generated artifacts. Implementations must be safe for
// concurrent use.
type Provider interface {
	ExtractKeywords(ctx context.Context, jobText string) (*types.KeywordExtraction, error)
	Optimize(ctx context.Context, resumeText, jobText string, keywords []string) (*types.Optimization, error)
	GenerateCoverLetter(ctx context.Context, resumeText, jobText, tone string) (*types.CoverLetterDraft, error)
	GenerateInterviewQuestions(ctx context.Context, resumeText, jobText string) (*types.InterviewPrep, error)
	AnalyzeMultipleJobs(ctx context.Context, resumeText string, jobs []types.JobPosting) (*types.MultiJobAnalysis, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Provider    string `json:"provider"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// Recorder receives one call per AI operation. observability.Metrics satisfies it.
type Recorder interface {
	RecordAIOperation(ctx context.Context, operation string, duration time.Duration, usage *TokenUsage, err error)
}

// completion is a raw model reply before it is decoded
type completion struct {
	Text  string
	Usage *TokenUsage
}
