package observability

import (
	"context"
	"fmt"
	"time"

	"resumeforge/internal/ai"
	"resumeforge/internal/config"
	"resumeforge/internal/errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the application instruments
type Metrics struct {
	cfg config.CustomMetricsConfig

	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	ScoreCount        metric.Int64Counter
	ScoreValue        metric.Int64Histogram
	DegradedFallbacks metric.Int64Counter

	RateLimitHits metric.Int64Counter
}

var _ ai.Recorder = (*Metrics)(nil)

func newMetrics(meter metric.Meter, cfg config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{cfg: cfg}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"resumeforge_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}
	if m.AIRequestCount, err = meter.Int64Counter(
		"resumeforge_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}
	if m.AIErrorCount, err = meter.Int64Counter(
		"resumeforge_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}
	if m.AITokenUsage, err = meter.Int64Histogram(
		"resumeforge_ai_token_usage",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("{token}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.ScoreCount, err = meter.Int64Counter(
		"resumeforge_ats_scores_total",
		metric.WithDescription("Total number of ATS scores computed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create score count metric: %w", err)
	}
	if m.ScoreValue, err = meter.Int64Histogram(
		"resumeforge_ats_score",
		metric.WithDescription("Distribution of overall ATS scores"),
		metric.WithExplicitBucketBoundaries(20, 40, 50, 60, 70, 80, 90, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create score value metric: %w", err)
	}
	if m.DegradedFallbacks, err = meter.Int64Counter(
		"resumeforge_degraded_fallbacks_total",
		metric.WithDescription("Operations served by the deterministic fallback instead of the AI provider"),
	); err != nil {
		return nil, fmt.Errorf("failed to create degraded fallback metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumeforge_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return m, nil
}

// RecordAIOperation implements ai.Recorder
func (m *Metrics) RecordAIOperation(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error) {
	if !m.cfg.AIOperations.Enabled {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	)
	m.AIRequestCount.Add(ctx, 1, attrs)
	if m.cfg.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration.Seconds(), attrs)
	}
	if err != nil {
		code := "unknown"
		if appErr, ok := errors.AsAppError(err); ok {
			code = appErr.Code
		}
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("code", code),
		))
	}

	if usage == nil || !m.cfg.AIOperations.TrackTokenUsage {
		return
	}
	for _, tt := range []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("token_type", tt.tokenType),
		))
	}
}

// RecordScore counts one ATS score and records its value
func (m *Metrics) RecordScore(ctx context.Context, method string, overall int, degraded bool) {
	if !m.cfg.Scoring.Enabled {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.Bool("degraded", degraded),
	)
	m.ScoreCount.Add(ctx, 1, attrs)
	m.ScoreValue.Record(ctx, int64(overall), attrs)
}

// RecordDegraded counts one fallback to deterministic processing
func (m *Metrics) RecordDegraded(ctx context.Context, operation string) {
	if !m.cfg.Scoring.Enabled || !m.cfg.Scoring.TrackDegraded {
		return
	}
	m.DegradedFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordRateLimitHit counts one rejected request
func (m *Metrics) RecordRateLimitHit(ctx context.Context, route string) {
	if !m.cfg.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("route", route)))
}
