package server

import (
	"net/http"

	"resumeforge/internal/auth"
	"resumeforge/internal/errors"
)

// apiFunc is a handler whose error is written as an ErrorBody
type apiFunc func(w http.ResponseWriter, r *http.Request) error

// routes registers every endpoint on a method-aware ServeMux
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)

	public := func(pattern string, fn apiFunc) {
		mux.Handle(pattern, s.rateLimitMiddleware(pattern, s.requestSizeLimit(s.handle(fn))))
	}
	private := func(pattern string, fn apiFunc) {
		mux.Handle(pattern, s.rateLimitMiddleware(pattern, s.requestSizeLimit(s.authMiddleware(s.handle(fn)))))
	}

	public("POST /api/auth/register", s.register)
	public("POST /api/auth/login", s.login)
	private("GET /api/auth/me", s.me)

	private("POST /api/resumes", s.createResume)
	private("GET /api/resumes", s.listResumes)
	private("GET /api/resumes/{id}", s.getResume)
	private("DELETE /api/resumes/{id}", s.deleteResume)
	private("POST /api/resumes/{id}/tailor", s.tailorResume)

	private("POST /api/job-descriptions", s.createJobDescription)
	private("POST /api/job-descriptions/import", s.importJobDescription)
	private("GET /api/job-descriptions", s.listJobDescriptions)
	private("GET /api/job-descriptions/{id}", s.getJobDescription)

	private("GET /api/resume-versions", s.listVersions)
	private("GET /api/resume-versions/{id}", s.getVersion)
	private("DELETE /api/resume-versions/{id}", s.deleteVersion)
	private("GET /api/resume-versions/{id}/download-word", s.downloadVersion)
	private("POST /api/resume-versions/{id}/cover-letter", s.generateCoverLetter)
	private("GET /api/resume-versions/{id}/cover-letters", s.listVersionCoverLetters)
	private("POST /api/resume-versions/{id}/interview-prep", s.generateInterviewQuestions)
	private("GET /api/resume-versions/{id}/interview-questions", s.listVersionInterviewQuestions)

	private("GET /api/cover-letters", s.listCoverLetters)
	private("GET /api/interview-questions", s.listInterviewQuestions)
	private("POST /api/multi-job-analysis", s.analyzeMultipleJobs)
	private("GET /api/user/stats", s.userStats)
	private("POST /api/score", s.score)

	return mux
}

// handle adapts an apiFunc to http.Handler
func (s *Server) handle(fn apiFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.writeError(w, r, err)
		}
	})
}

// authMiddleware requires a valid bearer token on /api routes
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return auth.Middleware(s.tokens, func(w http.ResponseWriter, r *http.Request, err error) {
		s.logger.Info("Authentication failed",
			"endpoint", r.URL.Path,
			"client_ip", getClientIP(r),
			"reason", err.Error())
		s.writeError(w, r, errors.NewAuthError(errors.ErrCodeUnauthorized, "missing or invalid bearer token", err))
	})(next)
}

// requestSizeLimit caps request bodies at app.maxFileSize
func (s *Server) requestSizeLimit(next http.Handler) http.Handler {
	if s.maxBody <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > s.maxBody {
			s.writeError(w, r, errors.NewValidationError(errors.ErrCodePayloadTooLarge, "request body too large", nil))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		next.ServeHTTP(w, r)
	})
}

// userID returns the authenticated user. Routes behind authMiddleware always have one.
func userID(r *http.Request) (string, error) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		return "", errors.NewAuthError(errors.ErrCodeUnauthorized, "not authenticated", nil)
	}
	return id, nil
}
