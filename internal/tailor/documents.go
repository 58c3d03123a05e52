package tailor

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"resumeforge/internal/storage"
	"resumeforge/internal/types"
)

// MinJobDescriptionLength is the shortest accepted job description, in characters
const MinJobDescriptionLength = 50

// ResumeInput is a résumé upload in plain text
type ResumeInput struct {
	FileName string `json:"fileName" validate:"required,max=255"`
	Content  string `json:"content" validate:"required"`
	FileType string `json:"fileType" validate:"omitempty,oneof=txt md"`
}

// JobInput is a job description to store
type JobInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Company     string `json:"company" validate:"max=200"`
	Description string `json:"description" validate:"required"`
	URL         string `json:"url" validate:"omitempty,url"`
}

func (s *Service) CreateResume(ctx context.Context, userID string, in ResumeInput) (*storage.Resume, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, invalid("résumé content is empty")
	}
	fileType := strings.ToLower(in.FileType)
	if fileType == "" {
		fileType = strings.TrimPrefix(strings.ToLower(filepath.Ext(in.FileName)), ".")
	}
	switch fileType {
	case "txt", "md":
	case "":
		fileType = "txt"
	default:
		return nil, invalid("unsupported file type " + fileType + ", use plain text or markdown")
	}

	r := &storage.Resume{
		UserID:          userID,
		FileName:        in.FileName,
		OriginalContent: content,
		FileType:        fileType,
		FileSize:        len(in.Content),
	}
	if err := s.store.CreateResume(ctx, r); err != nil {
		return nil, storeErr(err, "resume")
	}
	return r, nil
}

func (s *Service) ListResumes(ctx context.Context, userID string) ([]storage.Resume, error) {
	out, err := s.store.ListResumes(ctx, userID)
	return out, storeErr(err, "resumes")
}

// GetResume returns the résumé if userID owns it
func (s *Service) GetResume(ctx context.Context, userID, id string) (*storage.Resume, error) {
	r, err := s.store.GetResume(ctx, id)
	if err != nil {
		return nil, storeErr(err, "resume")
	}
	if r.UserID != userID {
		return nil, notFound("resume")
	}
	return r, nil
}

// DeleteResume removes the résumé with its versions and their archived exports
func (s *Service) DeleteResume(ctx context.Context, userID, id string) error {
	if _, err := s.GetResume(ctx, userID, id); err != nil {
		return err
	}

	var versionIDs []string
	if s.archive != nil {
		versions, err := s.store.ListResumeVersions(ctx, userID)
		if err != nil {
			return storeErr(err, "resume versions")
		}
		for _, v := range versions {
			if v.ResumeID == id {
				versionIDs = append(versionIDs, v.ID)
			}
		}
	}

	if err := s.store.DeleteResume(ctx, id); err != nil {
		return storeErr(err, "resume")
	}
	s.discardArchived(ctx, userID, versionIDs...)
	return nil
}

// CreateJobDescription stores a job with its extracted keywords. Extraction
// falls back to the degraded vocabulary scan when the collaborator fails.
func (s *Service) CreateJobDescription(ctx context.Context, userID string, in JobInput) (*storage.JobDescription, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" {
		return nil, invalid("job title is required")
	}
	if utf8.RuneCountInString(in.Description) < MinJobDescriptionLength {
		return nil, invalid("job description must be at least 50 characters")
	}

	keywords, skills, _ := s.extractKeywords(ctx, in.Description)

	j := &storage.JobDescription{
		UserID:            userID,
		Title:             in.Title,
		Company:           strings.TrimSpace(in.Company),
		Description:       in.Description,
		URL:               in.URL,
		ExtractedKeywords: keywords,
		RequiredSkills:    skills,
	}
	if err := s.store.CreateJobDescription(ctx, j); err != nil {
		return nil, storeErr(err, "job description")
	}
	return j, nil
}

// ImportJobDescription fetches a job page and stores it. Title and company
// given by the caller win over the ones found on the page.
func (s *Service) ImportJobDescription(ctx context.Context, userID, rawURL, title, company string) (*storage.JobDescription, error) {
	if s.fetcher == nil {
		return nil, invalid("job import is not enabled")
	}
	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	in := JobInput{
		Title:       title,
		Company:     company,
		Description: page.Description,
		URL:         page.URL,
	}
	if in.Title == "" {
		in.Title = page.Title
	}
	if in.Company == "" {
		in.Company = page.Company
	}
	return s.CreateJobDescription(ctx, userID, in)
}

func (s *Service) ListJobDescriptions(ctx context.Context, userID string) ([]storage.JobDescription, error) {
	out, err := s.store.ListJobDescriptions(ctx, userID)
	return out, storeErr(err, "job descriptions")
}

// GetJobDescription returns the job if userID owns it
func (s *Service) GetJobDescription(ctx context.Context, userID, id string) (*storage.JobDescription, error) {
	j, err := s.store.GetJobDescription(ctx, id)
	if err != nil {
		return nil, storeErr(err, "job description")
	}
	if j.UserID != userID {
		return nil, notFound("job description")
	}
	return j, nil
}

// extractKeywords asks the collaborator for keywords and skills. The bool is
// true when the degraded scan was used.
func (s *Service) extractKeywords(ctx context.Context, jobText string) ([]string, []string, bool) {
	var err error
	if s.provider != nil {
		var res *types.KeywordExtraction
		res, err = s.provider.ExtractKeywords(ctx, jobText)
		if err == nil && res != nil && len(res.Keywords) > 0 {
			return res.Keywords, res.Skills, false
		}
	}
	s.fallback(ctx, "keywords", err)
	d := s.degraded.ExtractKeywords(jobText)
	return d.Keywords, d.Skills, true
}
