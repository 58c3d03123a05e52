package tailor

import (
	"context"
	"strconv"
	"strings"

	"resumeforge/internal/ats"
	"resumeforge/internal/storage"
	"resumeforge/internal/types"
)

// TailorInput selects the documents and scoring method of a tailoring run
type TailorInput struct {
	ResumeID         string `json:"resumeId"`
	JobDescriptionID string `json:"jobDescriptionId" validate:"required"`
	VersionName      string `json:"versionName" validate:"max=200"`
	ScoringMethod    string `json:"scoringMethod" validate:"omitempty,oneof=jobscan resumeworded JOBSCAN RESUMEWORDED"`
}

// optimized is the outcome of optimisation before persistence
type optimized struct {
	opt      types.Optimization
	method   ats.Method
	score    ats.Result
	overall  int
	degraded bool
}

// optimize rewrites resumeText for the job and scores the rewrite. In degraded
// mode the heuristic rewrite carries a placeholder score instead.
func (s *Service) optimize(ctx context.Context, resumeText, jobText string, keywords []string, method ats.Method) optimized {
	keywords = ats.NormalizeKeywords(keywords)

	var err error
	if s.provider != nil {
		var opt *types.Optimization
		opt, err = s.provider.Optimize(ctx, resumeText, jobText, keywords)
		if err == nil && opt != nil {
			if strings.TrimSpace(opt.OptimizedContent) == "" {
				opt.OptimizedContent = resumeText
			}
			res := ats.Score(ats.Input{ResumeText: opt.OptimizedContent, JobDescriptionText: jobText, Keywords: keywords}, method)
			s.recordScore(ctx, method, res.Overall, false)
			return optimized{opt: *opt, method: method, score: res, overall: res.Overall}
		}
	}

	s.fallback(ctx, "optimize", err)
	opt, overall := s.degraded.Optimize(resumeText, keywords, method)
	s.recordScore(ctx, method, overall, true)
	return optimized{opt: opt, method: method, overall: overall, degraded: true}
}

// Tailor optimises the résumé for a job and stores the result as a new version
func (s *Service) Tailor(ctx context.Context, userID string, in TailorInput) (*storage.ResumeVersion, error) {
	method, err := s.method(in.ScoringMethod)
	if err != nil {
		return nil, err
	}
	resume, err := s.GetResume(ctx, userID, in.ResumeID)
	if err != nil {
		return nil, err
	}
	job, err := s.GetJobDescription(ctx, userID, in.JobDescriptionID)
	if err != nil {
		return nil, err
	}

	out := s.optimize(ctx, resume.OriginalContent, job.Description, job.ExtractedKeywords, method)

	name := strings.TrimSpace(in.VersionName)
	if name == "" {
		name = job.Title + " - " + s.now().UTC().Format("2006-01-02")
	}

	v := &storage.ResumeVersion{
		ResumeID:         resume.ID,
		JobDescriptionID: job.ID,
		VersionName:      name,
		TailoredContent:  out.opt.OptimizedContent,
		ATSScore:         strconv.Itoa(out.overall),
		ScoringMethod:    string(out.method),
		Degraded:         out.degraded,
		KeywordMatches:   out.opt.KeywordMatches,
		Improvements:     out.opt.Improvements,
		IsActive:         true,
	}
	if err := s.store.CreateResumeVersion(ctx, v); err != nil {
		return nil, storeErr(err, "resume version")
	}
	v.UserID, v.JobTitle, v.JobCompany = userID, job.Title, job.Company

	if s.logger != nil {
		s.logger.Info("Tailored resume",
			"version_id", v.ID,
			"method", v.ScoringMethod,
			"ats_score", v.ATSScore,
			"degraded", v.Degraded)
	}
	return v, nil
}

// ListVersions returns the user's versions with their job title and company
func (s *Service) ListVersions(ctx context.Context, userID string) ([]storage.ResumeVersion, error) {
	out, err := s.store.ListResumeVersions(ctx, userID)
	return out, storeErr(err, "resume versions")
}

// GetVersion returns the version if userID owns its résumé
func (s *Service) GetVersion(ctx context.Context, userID, id string) (*storage.ResumeVersion, error) {
	v, err := s.store.GetResumeVersion(ctx, id)
	if err != nil {
		return nil, storeErr(err, "resume version")
	}
	if v.UserID != userID {
		return nil, notFound("resume version")
	}
	return v, nil
}

// DeleteVersion removes the version and its archived export
func (s *Service) DeleteVersion(ctx context.Context, userID, id string) error {
	if _, err := s.GetVersion(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteResumeVersion(ctx, id); err != nil {
		return storeErr(err, "resume version")
	}
	s.discardArchived(ctx, userID, id)
	return nil
}

// ScoreInput is a stateless scoring request
type ScoreInput struct {
	ResumeText     string   `json:"resumeText" validate:"required"`
	JobDescription string   `json:"jobDescription" validate:"required"`
	Keywords       []string `json:"keywords"`
	ScoringMethod  string   `json:"scoringMethod"`
}

// ScoreReport is the result of ScoreText
type ScoreReport struct {
	ats.Result
	Keywords []string       `json:"keywords"`
	Scores   map[string]int `json:"breakdown"`
	// KeywordsDegraded is set when keywords came from the fallback scan.
	KeywordsDegraded bool `json:"keywordsDegraded,omitempty"`
}

// ScoreText scores a résumé against a job without persisting anything.
// Keywords are extracted from the job when none are given.
func (s *Service) ScoreText(ctx context.Context, in ScoreInput) (*ScoreReport, error) {
	if strings.TrimSpace(in.ResumeText) == "" || strings.TrimSpace(in.JobDescription) == "" {
		return nil, invalid("resume text and job description are required")
	}
	method, err := s.method(in.ScoringMethod)
	if err != nil {
		return nil, err
	}

	report := &ScoreReport{Keywords: ats.NormalizeKeywords(in.Keywords)}
	if len(report.Keywords) == 0 {
		var kw []string
		kw, _, report.KeywordsDegraded = s.extractKeywords(ctx, in.JobDescription)
		report.Keywords = ats.NormalizeKeywords(kw)
	}

	report.Result = ats.Score(ats.Input{
		ResumeText:         in.ResumeText,
		JobDescriptionText: in.JobDescription,
		Keywords:           report.Keywords,
	}, method)
	report.Scores = report.Result.Breakdown()
	s.recordScore(ctx, method, report.Overall, false)
	return report, nil
}

// TailorText runs extraction, optimisation and scoring on raw text without
// persisting anything
func (s *Service) TailorText(ctx context.Context, resumeText, jobText, methodName string) (*types.TailorOutput, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobText) == "" {
		return nil, invalid("resume text and job description are required")
	}
	method, err := s.method(methodName)
	if err != nil {
		return nil, err
	}

	keywords, _, kwDegraded := s.extractKeywords(ctx, jobText)
	out := s.optimize(ctx, resumeText, jobText, keywords, method)

	result := &types.TailorOutput{
		TailoredContent: out.opt.OptimizedContent,
		Improvements:    out.opt.Improvements,
		KeywordMatches:  out.opt.KeywordMatches,
		Keywords:        ats.NormalizeKeywords(keywords),
		ScoringMethod:   string(out.method),
		ATSScore:        out.overall,
		Degraded:        out.degraded || kwDegraded,
	}
	if !out.degraded {
		result.Breakdown = out.score.Breakdown()
	}
	return result, nil
}
