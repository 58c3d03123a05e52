// Package tailor orchestrates résumé tailoring: it loads the user's documents,
// calls the AI collaborator, scores the result and persists it. When the
// collaborator is missing or fails, keyword extraction, optimisation and
// multi-job analysis fall back to ats.Degraded and the result is flagged.
package tailor

import (
	"context"
	stderrors "errors"
	"time"

	"resumeforge/internal/ai"
	"resumeforge/internal/archive"
	"resumeforge/internal/ats"
	"resumeforge/internal/errors"
	"resumeforge/internal/jobfetch"
	"resumeforge/internal/storage"
)

// Recorder receives scoring and fallback events. observability.Metrics satisfies it.
type Recorder interface {
	RecordScore(ctx context.Context, method string, overall int, degraded bool)
	RecordDegraded(ctx context.Context, operation string)
}

// Options wires a Service. Only Store and Logger are required for the
// persisted operations; Provider may be nil (degraded mode).
type Options struct {
	Store         storage.Store
	Provider      ai.Provider
	Fetcher       *jobfetch.Fetcher
	Archive       archive.Store
	DefaultMethod ats.Method
	Metrics       Recorder
	Logger        *errors.Logger
	Degraded      *ats.Degraded
}

// Service implements the tailoring workflows
type Service struct {
	store         storage.Store
	provider      ai.Provider
	fetcher       *jobfetch.Fetcher
	archive       archive.Store
	defaultMethod ats.Method
	metrics       Recorder
	logger        *errors.Logger
	degraded      *ats.Degraded
	now           func() time.Time
}

// New creates a Service
func New(opts Options) *Service {
	if opts.DefaultMethod == "" {
		opts.DefaultMethod = ats.DefaultMethod
	}
	if opts.Degraded == nil {
		opts.Degraded = ats.NewDegraded()
	}
	return &Service{
		store:         opts.Store,
		provider:      opts.Provider,
		fetcher:       opts.Fetcher,
		archive:       opts.Archive,
		defaultMethod: opts.DefaultMethod,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		degraded:      opts.Degraded,
		now:           time.Now,
	}
}

// Degraded reports whether no AI provider is configured
func (s *Service) Degraded() bool {
	return s.provider == nil
}

// Provider returns the AI provider, nil in degraded mode
func (s *Service) Provider() ai.Provider {
	return s.provider
}

// method resolves a requested scoring method against the configured default
func (s *Service) method(name string) (ats.Method, error) {
	if name == "" {
		return s.defaultMethod, nil
	}
	m, err := ats.ParseMethod(name)
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), nil)
	}
	return m, nil
}

// fallback logs a collaborator failure and counts the degraded run
func (s *Service) fallback(ctx context.Context, operation string, err error) {
	args := []any{"operation", operation}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	if s.logger != nil {
		s.logger.Warn("AI collaborator unavailable, using degraded mode", args...)
	}
	if s.metrics != nil {
		s.metrics.RecordDegraded(ctx, operation)
	}
}

func (s *Service) recordScore(ctx context.Context, method ats.Method, overall int, degraded bool) {
	if s.metrics != nil {
		s.metrics.RecordScore(ctx, string(method), overall, degraded)
	}
}

// storeErr maps storage errors onto application errors. what names the entity.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, storage.ErrNotFound):
		return errors.NewNotFoundError(errors.ErrCodeNotFound, what+" not found", nil)
	case stderrors.Is(err, storage.ErrConflict):
		return errors.NewValidationError(errors.ErrCodeConflict, what+" already exists", err)
	default:
		if _, ok := errors.AsAppError(err); ok {
			return err
		}
		return errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to access "+what, err)
	}
}

func notFound(what string) error {
	return errors.NewNotFoundError(errors.ErrCodeNotFound, what+" not found", nil)
}

func invalid(message string) error {
	return errors.NewValidationError(errors.ErrCodeInvalidRequest, message, nil)
}
