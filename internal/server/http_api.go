package server

import (
	"net/http"

	"resumeforge/internal/auth"
	"resumeforge/internal/tailor"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type importRequest struct {
	URL     string `json:"url" validate:"required,url"`
	Title   string `json:"title" validate:"max=200"`
	Company string `json:"company" validate:"max=200"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) error {
	var req auth.Registration
	if err := s.decode(r, &req, false); err != nil {
		return err
	}
	sess, err := s.accounts.Register(r.Context(), req)
	if err != nil {
		return err
	}
	s.logger.Info("User registered", "user_id", sess.User.ID)
	writeJSON(w, http.StatusCreated, sess)
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := s.decode(r, &req, false); err != nil {
		return err
	}
	sess, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, sess)
	return nil
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	u, err := s.accounts.Me(r.Context(), uid)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, u)
	return nil
}

func (s *Server) createResume(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	var req tailor.ResumeInput
	if err := s.decode(r, &req, false); err != nil {
		return err
	}
	res, err := s.service.CreateResume(r.Context(), uid, req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, res)
	return nil
}

func (s *Server) listResumes(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	list, err := s.service.ListResumes(r.Context(), uid)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

func (s *Server) getResume(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	res, err := s.service.GetResume(r.Context(), uid, r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func (s *Server) deleteResume(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	if err := s.service.DeleteResume(r.Context(), uid, r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) createJobDescription(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	var req tailor.JobInput
	if err := s.decode(r, &req, false); err != nil {
		return err
	}
	job, err := s.service.CreateJobDescription(r.Context(), uid, req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, job)
	return nil
}

func (s *Server) importJobDescription(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	var req importRequest
	if err := s.decode(r, &req, false); err != nil {
		return err
	}
	job, err := s.service.ImportJobDescription(r.Context(), uid, req.URL, req.Title, req.Company)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, job)
	return nil
}

func (s *Server) listJobDescriptions(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	list, err := s.service.ListJobDescriptions(r.Context(), uid)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

func (s *Server) getJobDescription(w http.ResponseWriter, r *http.Request) error {
	uid, err := userID(r)
	if err != nil {
		return err
	}
	job, err := s.service.GetJobDescription(r.Context(), uid, r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, job)
	return nil
}
