package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resumeforge/internal/ai/aitest"
	"resumeforge/internal/ats"
	"resumeforge/internal/auth"
	"resumeforge/internal/config"
	"resumeforge/internal/errors"
	"resumeforge/internal/observability"
	"resumeforge/internal/storage"
	"resumeforge/internal/tailor"
	"resumeforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	resumeText = `Jane Doe
jane@example.com | 555-123-4567

EXPERIENCE
Software Engineer
• Built Go services handling 2 million requests per day

SKILLS
Go, Python, PostgreSQL`

	jobText = "We are hiring a backend engineer to build scalable APIs in Go and Python with PostgreSQL and Kubernetes."
)

type testServer struct {
	*httptest.Server
	srv  *Server
	fake *aitest.Fake
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{MaxFileSize: 64 * 1024},
		Server: config.ServerConfig{
			RateLimit: config.RateLimitConfig{Enabled: false},
		},
		Observability: config.ObservabilityConfig{HealthCheck: config.HealthCheckConfig{Timeout: time.Second}},
	}
}

func fakeProvider() *aitest.Fake {
	return &aitest.Fake{
		ExtractKeywordsFunc: func(context.Context, string) (*types.KeywordExtraction, error) {
			return &types.KeywordExtraction{Keywords: []string{"Go", "Python", "Kubernetes"}, Skills: []string{"Go"}}, nil
		},
		OptimizeFunc: func(_ context.Context, resume, _ string, keywords []string) (*types.Optimization, error) {
			return &types.Optimization{OptimizedContent: resume + "\nKubernetes", KeywordMatches: keywords}, nil
		},
		CoverLetterFunc: func(_ context.Context, _, _, tone string) (*types.CoverLetterDraft, error) {
			return &types.CoverLetterDraft{Content: "Dear team", Tone: tone}, nil
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, fake *aitest.Fake) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := errors.NewLoggerTo(io.Discard, slog.LevelError)

	store, err := storage.Open(ctx, storage.Options{Driver: storage.DriverSQLite, DSN: filepath.Join(t.TempDir(), "api.db")})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { _ = store.Close() })

	obs, err := observability.NewManager(cfg.Observability, "test", logger)
	require.NoError(t, err)

	opts := tailor.Options{
		Store:    store,
		Metrics:  obs.Metrics(),
		Logger:   logger,
		Degraded: ats.NewDegradedWithSeed(1),
	}
	if fake != nil {
		opts.Provider = fake
	}

	tokens, err := auth.NewTokens("test-secret", time.Hour, "resumeforge")
	require.NoError(t, err)

	srv := New(Options{
		Config:        cfg,
		Version:       "test",
		Service:       tailor.New(opts),
		Store:         store,
		Tokens:        tokens,
		Passwords:     auth.Passwords{Cost: 4},
		Observability: obs,
		Logger:        logger,
	})
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, srv: srv, fake: fake}
}

// call sends body as JSON and decodes the response into out when out is non-nil
func (ts *testServer) call(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (ts *testServer) register(t *testing.T, email string) string {
	t.Helper()
	var sess auth.Session
	resp := ts.call(t, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": email, "password": "longenough"}, &sess)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, sess.Token)
	return sess.Token
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, testConfig(), fakeProvider())
	token := ts.register(t, "jane@example.com")

	var sess auth.Session
	resp := ts.call(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "jane@example.com", "password": "longenough"}, &sess)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me storage.User
	resp = ts.call(t, http.MethodGet, "/api/auth/me", token, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jane@example.com", me.Email)

	resp = ts.call(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "jane@example.com", "password": "nope-nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.call(t, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "jane@example.com", "password": "longenough"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	tests := []struct {
		name string
		body any
	}{
		{"bad email", map[string]string{"email": "not-an-email", "password": "longenough"}},
		{"short password", map[string]string{"email": "a@example.com", "password": "short"}},
		{"missing body", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.call(t, http.MethodPost, "/api/auth/register", "", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, errors.ErrCodeInvalidRequest, errorCode(t, resp))
		})
	}
}

func TestRequiresToken(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	for _, path := range []string{"/api/resumes", "/api/resume-versions", "/api/user/stats"} {
		resp := ts.call(t, http.MethodGet, path, "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)

		resp = ts.call(t, http.MethodGet, path, "garbage", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestTailorWorkflow(t *testing.T) {
	ts := newTestServer(t, testConfig(), fakeProvider())
	token := ts.register(t, "jane@example.com")

	var resume storage.Resume
	resp := ts.call(t, http.MethodPost, "/api/resumes", token,
		tailor.ResumeInput{FileName: "cv.txt", Content: resumeText}, &resume)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var job storage.JobDescription
	resp = ts.call(t, http.MethodPost, "/api/job-descriptions", token,
		tailor.JobInput{Title: "Backend Engineer", Company: "Acme", Description: jobText}, &job)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, job.ExtractedKeywords, "Kubernetes")

	var version storage.ResumeVersion
	resp = ts.call(t, http.MethodPost, "/api/resumes/"+resume.ID+"/tailor", token,
		map[string]string{"jobDescriptionId": job.ID, "scoringMethod": "resumeworded"}, &version)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "resumeworded", version.ScoringMethod)
	assert.False(t, version.Degraded)
	assert.NotEmpty(t, version.ATSScore)

	var versions []storage.ResumeVersion
	resp = ts.call(t, http.MethodGet, "/api/resume-versions", token, nil, &versions)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, versions, 1)

	var letter storage.CoverLetter
	resp = ts.call(t, http.MethodPost, "/api/resume-versions/"+version.ID+"/cover-letter", token, nil, &letter)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, tailor.ToneProfessional, letter.Tone)

	var letters []storage.CoverLetter
	resp = ts.call(t, http.MethodGet, "/api/cover-letters", token, nil, &letters)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, letters, 1)

	// Interview questions are not scripted on the fake, so the provider error surfaces.
	resp = ts.call(t, http.MethodPost, "/api/resume-versions/"+version.ID+"/interview-prep", token, nil, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var stats storage.UserStats
	resp = ts.call(t, http.MethodGet, "/api/user/stats", token, nil, &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stats.TotalResumes)
	assert.Equal(t, 1, stats.TotalVersions)

	resp = ts.call(t, http.MethodGet, "/api/resume-versions/"+version.ID+"/download-word", token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), "attachment"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))

	resp = ts.call(t, http.MethodDelete, "/api/resume-versions/"+version.ID, token, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = ts.call(t, http.MethodGet, "/api/resume-versions/"+version.ID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOwnershipIsolation(t *testing.T) {
	ts := newTestServer(t, testConfig(), fakeProvider())
	alice := ts.register(t, "alice@example.com")
	bob := ts.register(t, "bob@example.com")

	var resume storage.Resume
	resp := ts.call(t, http.MethodPost, "/api/resumes", alice,
		tailor.ResumeInput{FileName: "cv.md", Content: resumeText}, &resume)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.call(t, http.MethodGet, "/api/resumes/"+resume.ID, bob, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeNotFound, errorCode(t, resp))

	resp = ts.call(t, http.MethodDelete, "/api/resumes/"+resume.ID, bob, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDegradedMode(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	token := ts.register(t, "jane@example.com")

	var resume storage.Resume
	ts.call(t, http.MethodPost, "/api/resumes", token, tailor.ResumeInput{FileName: "cv.txt", Content: resumeText}, &resume)
	var job storage.JobDescription
	resp := ts.call(t, http.MethodPost, "/api/job-descriptions", token,
		tailor.JobInput{Title: "Backend Engineer", Description: jobText}, &job)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var version storage.ResumeVersion
	resp = ts.call(t, http.MethodPost, "/api/resumes/"+resume.ID+"/tailor", token,
		map[string]string{"jobDescriptionId": job.ID}, &version)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, version.Degraded)

	resp = ts.call(t, http.MethodPost, "/api/resume-versions/"+version.ID+"/cover-letter", token,
		map[string]string{"tone": "casual"}, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeMissingAPIKey, errorCode(t, resp))

	var analysis types.MultiJobAnalysis
	resp = ts.call(t, http.MethodPost, "/api/multi-job-analysis", token,
		map[string]any{"resumeId": resume.ID, "jobDescriptionIds": []string{job.ID}}, &analysis)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, analysis.JobSpecificInsights, 1)

	var health map[string]any
	resp = ts.call(t, http.MethodGet, "/health", "", nil, &health)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "degraded", health["status"])
}

func TestScoreEndpoint(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	token := ts.register(t, "jane@example.com")

	var report tailor.ScoreReport
	resp := ts.call(t, http.MethodPost, "/api/score", token, tailor.ScoreInput{
		ResumeText:     resumeText,
		JobDescription: jobText,
		Keywords:       []string{"Go", "Python", "Kubernetes"},
		ScoringMethod:  "jobscan",
	}, &report)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ats.MethodJobscan, report.Method)
	assert.GreaterOrEqual(t, report.Overall, 0)
	assert.LessOrEqual(t, report.Overall, 100)

	resp = ts.call(t, http.MethodPost, "/api/score", token, tailor.ScoreInput{
		ResumeText: resumeText, JobDescription: jobText, ScoringMethod: "bogus",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.App.MaxFileSize = 256
	ts := newTestServer(t, cfg, nil)
	token := ts.register(t, "jane@example.com")

	resp := ts.call(t, http.MethodPost, "/api/resumes", token,
		tailor.ResumeInput{FileName: "cv.txt", Content: strings.Repeat("x", 1024)}, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, errors.ErrCodePayloadTooLarge, errorCode(t, resp))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 2, ByIP: true, Window: time.Minute}
	ts := newTestServer(t, cfg, nil)

	body := map[string]string{"email": "x@example.com", "password": "whatever1"}
	codes := make([]int, 0, 3)
	for range 3 {
		resp := ts.call(t, http.MethodPost, "/api/auth/login", "", body, nil)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)

	var stats map[string]any
	resp := ts.call(t, http.MethodGet, "/stats", "", nil, &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	limiting := stats["rate_limiting"].(map[string]any)
	assert.EqualValues(t, 1, limiting["active_limiters"])
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "garbage, 10.0.0.1, 10.0.0.2"}, "1.2.3.4:80", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.9"}, "1.2.3.4:80", "10.0.0.9"},
		{"remote", nil, "1.2.3.4:80", "1.2.3.4"},
		{"remote without port", nil, "1.2.3.4", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(60, 1, time.Minute, nil)
	defer rl.Close()

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	rl.cleanup(time.Now().Add(2 * time.Minute))
	assert.EqualValues(t, 0, rl.GetStats()["active_limiters"])
	assert.True(t, rl.Allow("a"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  *errors.AppError
		want int
	}{
		{errors.NewValidationError(errors.ErrCodeInvalidRequest, "", nil), http.StatusBadRequest},
		{errors.NewValidationError(errors.ErrCodePayloadTooLarge, "", nil), http.StatusRequestEntityTooLarge},
		{errors.NewValidationError(errors.ErrCodeRateLimited, "", nil), http.StatusTooManyRequests},
		{errors.NewValidationError(errors.ErrCodeConflict, "", nil), http.StatusConflict},
		{errors.NewAuthError(errors.ErrCodeUnauthorized, "", nil), http.StatusUnauthorized},
		{errors.NewNotFoundError(errors.ErrCodeNotFound, "", nil), http.StatusNotFound},
		{errors.NewAIError(errors.ErrCodeAIServiceFailed, "", nil), http.StatusBadGateway},
		{errors.NewNetworkError(errors.ErrCodeFetchFailed, "", nil), http.StatusBadGateway},
		{errors.NewStorageError(errors.ErrCodeStorageFailed, "", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Code)
	}
}
