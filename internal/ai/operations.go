package ai

import (
	"context"
	"strings"
	"time"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
	"resumeforge/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// callFunc performs one model request for op. It is wrapped by retry and the breaker.
type callFunc func(ctx context.Context, operation string, op config.ResolvedOperation, system, user string) (*completion, error)

// engine implements the Provider operations on top of a provider-specific callFunc
type engine struct {
	provider string
	prompts  prompts
	breakers breakerSet
	logger   *errors.Logger
	recorder Recorder
	call     callFunc
}

func newEngine(provider string, cfg *config.Config, store *config.PromptStore, logger *errors.Logger, recorder Recorder, call callFunc) *engine {
	return &engine{
		provider: provider,
		prompts:  newPrompts(cfg, store),
		breakers: newBreakerSet(cfg.AI.CircuitBreaker, logger),
		logger:   logger,
		recorder: recorder,
		call:     call,
	}
}

// run executes one operation with tracing, timeout, breaker and retry, and
// returns the validated JSON document of the reply.
func (e *engine) run(ctx context.Context, operation, system, user string, attrs ...attribute.KeyValue) (string, error) {
	opCfg := e.prompts.ops[operation]

	tracer := otel.Tracer("resumeforge.ai." + e.provider)
	ctx, span := tracer.Start(ctx, e.provider+"."+operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", e.provider),
		attribute.String("ai.model", opCfg.Model),
		attribute.Float64("ai.temperature", float64(opCfg.Temperature)),
	)
	span.SetAttributes(attrs...)

	if opCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opCfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := e.breakers[operation].Execute(func() (*completion, error) {
		return executeWithRetry(ctx, e.logger, operation, opCfg.MaxRetries, func() (*completion, error) {
			return e.call(ctx, operation, opCfg, system, user)
		})
	})

	var usage *TokenUsage
	if result != nil {
		usage = result.Usage
	}

	if err == nil {
		err = e.checkReply(operation, result)
	}
	if e.recorder != nil {
		e.recorder.RecordAIOperation(ctx, operation, time.Since(start), usage, err)
	}

	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		if _, ok := errors.AsAppError(err); ok {
			return "", err
		}
		return "", errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to generate content for "+operation, err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return result.Text, nil
}

// checkReply reduces the reply to its JSON object and validates it in place
func (e *engine) checkReply(operation string, result *completion) error {
	doc, ok := extractJSON(result.Text)
	if !ok {
		return errors.NewAIError(errors.ErrCodeAIResponseInvalid, "AI reply for "+operation+" contains no JSON object", nil)
	}
	if err := validateReply(operation, doc); err != nil {
		return errors.NewAIError(errors.ErrCodeAIResponseInvalid, "AI reply for "+operation+" failed validation", err)
	}
	result.Text = doc
	return nil
}

func (e *engine) ExtractKeywords(ctx context.Context, jobText string) (*types.KeywordExtraction, error) {
	system, user := e.prompts.build(config.OpKeywords, jobText)
	doc, err := e.run(ctx, config.OpKeywords, system, user,
		attribute.Int("input.job_length", len(jobText)))
	if err != nil {
		return nil, err
	}
	return decodeKeywords(doc), nil
}

func (e *engine) Optimize(ctx context.Context, resumeText, jobText string, keywords []string) (*types.Optimization, error) {
	system, user := e.prompts.build(config.OpOptimize, strings.Join(keywords, ", "), resumeText, jobText)
	doc, err := e.run(ctx, config.OpOptimize, system, user,
		attribute.Int("input.resume_length", len(resumeText)),
		attribute.Int("input.job_length", len(jobText)),
		attribute.Int("input.keywords", len(keywords)))
	if err != nil {
		return nil, err
	}
	return decodeOptimization(doc), nil
}

func (e *engine) GenerateCoverLetter(ctx context.Context, resumeText, jobText, tone string) (*types.CoverLetterDraft, error) {
	system, user := e.prompts.build(config.OpCoverLetter, resumeText, jobText, tone)
	doc, err := e.run(ctx, config.OpCoverLetter, system, user,
		attribute.String("input.tone", tone))
	if err != nil {
		return nil, err
	}
	return decodeCoverLetter(doc, tone), nil
}

func (e *engine) GenerateInterviewQuestions(ctx context.Context, resumeText, jobText string) (*types.InterviewPrep, error) {
	system, user := e.prompts.build(config.OpInterview, resumeText, jobText)
	doc, err := e.run(ctx, config.OpInterview, system, user,
		attribute.Int("input.resume_length", len(resumeText)))
	if err != nil {
		return nil, err
	}
	return decodeInterview(doc), nil
}

func (e *engine) AnalyzeMultipleJobs(ctx context.Context, resumeText string, jobs []types.JobPosting) (*types.MultiJobAnalysis, error) {
	system, user := e.prompts.build(config.OpMultiJob, resumeText, formatJobs(jobs))
	doc, err := e.run(ctx, config.OpMultiJob, system, user,
		attribute.Int("input.jobs", len(jobs)))
	if err != nil {
		return nil, err
	}
	return decodeMultiJob(doc), nil
}

// CircuitBreakerStats returns per-operation breaker statistics
func (e *engine) CircuitBreakerStats() map[string]any {
	return e.breakers.Stats()
}
