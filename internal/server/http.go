// Package server exposes the tailoring workflows over a JSON HTTP API.
package server

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"resumeforge/internal/auth"
	"resumeforge/internal/config"
	"resumeforge/internal/errors"
	"resumeforge/internal/observability"
	"resumeforge/internal/storage"
	"resumeforge/internal/tailor"

	"github.com/go-playground/validator/v10"
)

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the application error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Options wires a Server
type Options struct {
	Config        *config.Config
	Version       string
	Service       *tailor.Service
	Store         storage.Store
	Tokens        *auth.Tokens
	Passwords     auth.Passwords
	Observability *observability.Manager
	Logger        *errors.Logger
}

// Server holds the HTTP API dependencies
type Server struct {
	cfg      config.ServerConfig
	version  string
	maxBody  int64
	checkTTL time.Duration

	service  *tailor.Service
	store    storage.Store
	accounts *auth.Accounts
	tokens   *auth.Tokens
	obs      *observability.Manager
	limiter  *RateLimiter
	validate *validator.Validate
	logger   *errors.Logger
}

// New creates a Server. The rate limiter starts its cleanup goroutine here
// and is stopped by Close.
func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Config.Server,
		version:  opts.Version,
		maxBody:  opts.Config.App.MaxFileSize,
		checkTTL: opts.Config.Observability.HealthCheck.Timeout,
		service:  opts.Service,
		store:    opts.Store,
		accounts: auth.NewAccounts(opts.Store, opts.Passwords, opts.Tokens),
		tokens:   opts.Tokens,
		obs:      opts.Observability,
		validate: newValidator(),
		logger:   opts.Logger,
	}

	if rl := opts.Config.Server.RateLimit; rl.Enabled {
		s.limiter = NewRateLimiter(rl.RequestsPerMin, rl.BurstCapacity, rl.Window, opts.Logger)
	}
	return s
}

// Close releases background resources
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}

// newValidator reports field errors under their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Handler returns the API with the observability middleware applied
func (s *Server) Handler() http.Handler {
	mux := s.routes()
	if s.obs == nil {
		return mux
	}
	return s.obs.HTTPMiddleware()(mux)
}
