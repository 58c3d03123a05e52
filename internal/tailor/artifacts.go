package tailor

import (
	"context"
	"regexp"
	"strings"

	"resumeforge/internal/archive"
	"resumeforge/internal/document"
	"resumeforge/internal/errors"
	"resumeforge/internal/storage"
	"resumeforge/internal/types"

	"golang.org/x/sync/errgroup"
)

// Cover letter tones
const (
	ToneProfessional = "professional"
	ToneCasual       = "casual"
	ToneEnthusiastic = "enthusiastic"
)

// maxConcurrentLoads bounds the job lookups of a multi-job analysis
const maxConcurrentLoads = 4

// versionContext loads a version the user owns together with its job
func (s *Service) versionContext(ctx context.Context, userID, versionID string) (*storage.ResumeVersion, *storage.JobDescription, error) {
	v, err := s.GetVersion(ctx, userID, versionID)
	if err != nil {
		return nil, nil, err
	}
	job, err := s.store.GetJobDescription(ctx, v.JobDescriptionID)
	if err != nil {
		return nil, nil, storeErr(err, "job description")
	}
	return v, job, nil
}

// requireProvider fails AI-only operations in degraded mode
func (s *Service) requireProvider() error {
	if s.provider == nil {
		return errors.NewAIError(errors.ErrCodeMissingAPIKey, "AI provider is not configured", nil)
	}
	return nil
}

// GenerateCoverLetter writes a cover letter for a version. There is no
// degraded fallback; collaborator failures are returned.
func (s *Service) GenerateCoverLetter(ctx context.Context, userID, versionID, tone string) (*storage.CoverLetter, error) {
	switch tone = strings.ToLower(strings.TrimSpace(tone)); tone {
	case "":
		tone = ToneProfessional
	case ToneProfessional, ToneCasual, ToneEnthusiastic:
	default:
		return nil, invalid("tone must be professional, casual or enthusiastic")
	}

	v, job, err := s.versionContext(ctx, userID, versionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireProvider(); err != nil {
		return nil, err
	}

	draft, err := s.provider.GenerateCoverLetter(ctx, v.TailoredContent, job.Description, tone)
	if err != nil {
		return nil, asAIError(err, "failed to generate cover letter")
	}

	c := &storage.CoverLetter{
		ResumeVersionID: v.ID,
		Content:         draft.Content,
		Tone:            draft.Tone,
		KeyPoints:       draft.KeyPoints,
	}
	if err := s.store.CreateCoverLetter(ctx, c); err != nil {
		return nil, storeErr(err, "cover letter")
	}
	return c, nil
}

// ListCoverLetters lists the letters of one version, or of every version
// the user owns when versionID is empty
func (s *Service) ListCoverLetters(ctx context.Context, userID, versionID string) ([]storage.CoverLetter, error) {
	if versionID == "" {
		out, err := s.store.ListUserCoverLetters(ctx, userID)
		return out, storeErr(err, "cover letters")
	}
	if _, err := s.GetVersion(ctx, userID, versionID); err != nil {
		return nil, err
	}
	out, err := s.store.ListCoverLetters(ctx, versionID)
	return out, storeErr(err, "cover letters")
}

// GenerateInterviewQuestions creates interview questions for a version
func (s *Service) GenerateInterviewQuestions(ctx context.Context, userID, versionID string) ([]storage.InterviewQuestion, error) {
	v, job, err := s.versionContext(ctx, userID, versionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireProvider(); err != nil {
		return nil, err
	}

	prep, err := s.provider.GenerateInterviewQuestions(ctx, v.TailoredContent, job.Description)
	if err != nil {
		return nil, asAIError(err, "failed to generate interview questions")
	}
	if len(prep.Questions) == 0 {
		return nil, errors.NewAIError(errors.ErrCodeAIResponseInvalid, "AI returned no interview questions", nil)
	}

	qs := make([]storage.InterviewQuestion, 0, len(prep.Questions))
	for _, q := range prep.Questions {
		qs = append(qs, storage.InterviewQuestion{
			ResumeVersionID: v.ID,
			Question:        q.Question,
			SuggestedAnswer: q.SuggestedAnswer,
			Category:        q.Category,
			Difficulty:      q.Difficulty,
		})
	}
	if err := s.store.CreateInterviewQuestions(ctx, qs); err != nil {
		return nil, storeErr(err, "interview questions")
	}
	return qs, nil
}

// ListInterviewQuestions lists the questions of one version, or of every
// version the user owns when versionID is empty
func (s *Service) ListInterviewQuestions(ctx context.Context, userID, versionID string) ([]storage.InterviewQuestion, error) {
	if versionID == "" {
		out, err := s.store.ListUserInterviewQuestions(ctx, userID)
		return out, storeErr(err, "interview questions")
	}
	if _, err := s.GetVersion(ctx, userID, versionID); err != nil {
		return nil, err
	}
	out, err := s.store.ListInterviewQuestions(ctx, versionID)
	return out, storeErr(err, "interview questions")
}

// AnalyzeMultipleJobs builds a master résumé strategy across jobs. Jobs that
// are missing or belong to someone else are skipped.
func (s *Service) AnalyzeMultipleJobs(ctx context.Context, userID, resumeID string, jobIDs []string) (*types.MultiJobAnalysis, error) {
	if len(jobIDs) == 0 {
		return nil, invalid("at least one job description is required")
	}
	resume, err := s.GetResume(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	loaded := make([]*storage.JobDescription, len(jobIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, id := range jobIDs {
		g.Go(func() error {
			job, err := s.GetJobDescription(gctx, userID, id)
			if errors.IsType(err, errors.ErrorTypeNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			loaded[i] = job
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	jobs := make([]types.JobPosting, 0, len(loaded))
	for _, job := range loaded {
		if job != nil {
			jobs = append(jobs, types.JobPosting{Title: job.Title, Description: job.Description})
		}
	}
	if len(jobs) == 0 {
		return nil, notFound("job descriptions")
	}
	return s.analyzeJobs(ctx, resume.OriginalContent, jobs), nil
}

// AnalyzeText is AnalyzeMultipleJobs on raw text, without persistence
func (s *Service) AnalyzeText(ctx context.Context, resumeText string, jobs []types.JobPosting) (*types.MultiJobAnalysis, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, invalid("resume text is required")
	}
	if len(jobs) == 0 {
		return nil, invalid("at least one job description is required")
	}
	return s.analyzeJobs(ctx, resumeText, jobs), nil
}

func (s *Service) analyzeJobs(ctx context.Context, resumeText string, jobs []types.JobPosting) *types.MultiJobAnalysis {
	var err error
	if s.provider != nil {
		var analysis *types.MultiJobAnalysis
		analysis, err = s.provider.AnalyzeMultipleJobs(ctx, resumeText, jobs)
		if err == nil && analysis != nil {
			analysis.DedupeInsights()
			return analysis
		}
	}
	s.fallback(ctx, "multiJob", err)

	analysis := s.degraded.AnalyzeMultipleJobs(jobs)
	analysis.DedupeInsights()
	return &analysis
}

// Export is a rendered DOCX document
type Export struct {
	FileName string
	Data     []byte
	Archived *archive.Object
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// exportFileName turns a version name into a download file name
func exportFileName(versionName string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(versionName, "_"), "_.")
	if name == "" {
		name = "resume"
	}
	return name + ".docx"
}

// ExportVersion renders a version as DOCX and archives it when an archive is configured
func (s *Service) ExportVersion(ctx context.Context, userID, versionID string) (*Export, error) {
	v, err := s.GetVersion(ctx, userID, versionID)
	if err != nil {
		return nil, err
	}
	key := archive.Key(userID, v.ID)

	// Versions never change, so an archived copy is served as is.
	if s.archive != nil {
		data, err := s.archive.Get(ctx, key)
		if err == nil {
			return &Export{
				FileName: exportFileName(v.VersionName),
				Data:     data,
				Archived: &archive.Object{Key: key, Size: len(data)},
			}, nil
		}
		if !errors.IsType(err, errors.ErrorTypeNotFound) && s.logger != nil {
			s.logger.LogError(err, "Failed to read archived export", "version_id", v.ID)
		}
	}

	resume, err := s.store.GetResume(ctx, v.ResumeID)
	if err != nil {
		return nil, storeErr(err, "resume")
	}

	data, err := document.ExportBytes(resume.OriginalContent, v.TailoredContent, document.DefaultOptions)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeExportFailed, "failed to render document", err)
	}
	out := &Export{FileName: exportFileName(v.VersionName), Data: data}

	if s.archive != nil {
		obj, err := s.archive.Put(ctx, key, data, archive.DocxContentType)
		if err != nil {
			// The download still succeeds without the archived copy.
			if s.logger != nil {
				s.logger.LogError(err, "Failed to archive export", "version_id", v.ID)
			}
		} else {
			out.Archived = obj
		}
	}
	return out, nil
}

// discardArchived removes archived exports of the given versions. Failures are
// logged; the versions themselves are already gone.
func (s *Service) discardArchived(ctx context.Context, userID string, versionIDs ...string) {
	if s.archive == nil {
		return
	}
	for _, id := range versionIDs {
		if err := s.archive.Delete(ctx, archive.Key(userID, id)); err != nil && s.logger != nil {
			s.logger.LogError(err, "Failed to delete archived export", "version_id", id)
		}
	}
}

// Stats summarises the user's activity
func (s *Service) Stats(ctx context.Context, userID string) (*storage.UserStats, error) {
	st, err := s.store.UserStats(ctx, userID)
	return st, storeErr(err, "stats")
}

// asAIError keeps AppErrors from the provider and wraps anything else
func asAIError(err error, message string) error {
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	return errors.NewAIError(errors.ErrCodeAIServiceFailed, message, err)
}
