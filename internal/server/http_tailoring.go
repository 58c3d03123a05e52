package server

import (
	"mime"
	"net/http"
	"strconv"

	"resumeforge/internal/archive"
	"resumeforge/internal/tailor"
)

type coverLetterRequest struct {
	Tone string `json:"tone" validate:"max=30"`
}

type multiJobRequest struct {
	ResumeID          string   `json:"resumeId" validate:"required"`
	JobDescriptionIDs []string `json:"jobDescriptionIds" validate:"required,min=1,max=10,dive,required"`
}

func (s *Server) tailorResume(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	var req tailor.TailorInput
	if err := s.decode(r, &req, false); err != nil {
		return err
	}
	req.ResumeID = r.PathValue("id")

	v, err := s.service.Tailor(r.Context(), uid, req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, v)
	return nil
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	list, err := s.service.ListVersions(r.Context(), uid)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	v, err := s.service.GetVersion(r.Context(), uid, r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, v)
	return nil
}

func (s *Server) deleteVersion(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	if err := s.service.DeleteVersion(r.Context(), uid, r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// downloadVersion streams the DOCX rendering of a version
func (s *Server) downloadVersion(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	export, err := s.service.ExportVersion(r.Context(), uid, r.PathValue("id"))
	if err != nil {
		return err
	}

	h := w.Header()
	h.Set("Content-Type", archive.DocxContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.FileName}))
	h.Set("Content-Length", strconv.Itoa(len(export.Data)))
	if export.Archived != nil && export.Archived.Location != "" {
		h.Set("X-Archive-Location", export.Archived.Location)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
	return nil
}

func (s *Server) generateCoverLetter(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	var req coverLetterRequest
	if err := s.decode(r, &req, true); err != nil {
		return err
	}
	letter, err := s.service.GenerateCoverLetter(r.Context(), uid, r.PathValue("id"), req.Tone)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, letter)
	return nil
}

func (s *Server) listVersionCoverLetters(w http.ResponseWriter, r *http.Request) error {
	return s.writeCoverLetters(w, r, r.PathValue("id"))
}

func (s *Server) listCoverLetters(w http.ResponseWriter, r *http.Request) error {
	return s.writeCoverLetters(w, r, "")
}

func (s *Server) writeCoverLetters(w http.ResponseWriter, r *http.Request, versionID string) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	list, err := s.service.ListCoverLetters(r.Context(), uid, versionID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

func (s *Server) generateInterviewQuestions(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	qs, err := s.service.GenerateInterviewQuestions(r.Context(), uid, r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, qs)
	return nil
}

func (s *Server) listVersionInterviewQuestions(w http.ResponseWriter, r *http.Request) error {
	return s.writeInterviewQuestions(w, r, r.PathValue("id"))
}

func (s *Server) listInterviewQuestions(w http.ResponseWriter, r *http.Request) error {
	return s.writeInterviewQuestions(w, r, "")
}

func (s *Server) writeInterviewQuestions(w http.ResponseWriter, r *http.Request, versionID string) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	list, err := s.service.ListInterviewQuestions(r.Context(), uid, versionID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

func (s *Server) analyzeMultipleJobs(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	var req multiJobRequest
	if err := s.decode(r, &req, false); err != nil {
		return err
	}
	analysis, err := s.service.AnalyzeMultipleJobs(r.Context(), uid, req.ResumeID, req.JobDescriptionIDs)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, analysis)
	return nil
}

func (s *Server) userStats(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	st, err := s.service.Stats(r.Context(), uid)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, st)
	return nil
}

// score is the stateless scoring endpoint
func (s *Server) score(w http.ResponseWriter, r *http.Request) error {
	var req tailor.ScoreInput
	if err := s.decode(r, &req, false); err != nil {
		return err
	}
	report, err := s.service.ScoreText(r.Context(), req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, report)
	return nil
}
