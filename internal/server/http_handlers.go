package server

import (
	"context"
	"net/http"
	"time"
)

// breakerReporter is implemented by providers that expose circuit breaker state
type breakerReporter interface {
	CircuitBreakerStats() map[string]any
}

func (s *Server) healthCheckTimeout() time.Duration {
	if s.checkTTL > 0 {
		return s.checkTTL
	}
	return 5 * time.Second
}

// healthHandler reports database reachability and AI model availability. A
// missing or unavailable model degrades the service but keeps it serving.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.healthCheckTimeout())
	defer cancel()

	response := map[string]any{
		"status":  "healthy",
		"service": "resumeforge",
		"version": s.version,
	}
	status := http.StatusOK

	if err := s.store.Ping(ctx); err != nil {
		s.logger.LogError(err, "Database health check failed")
		response["database"] = map[string]any{"available": false, "error": err.Error()}
		response["status"] = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		response["database"] = map[string]any{"available": true}
	}

	provider := s.service.Provider()
	switch {
	case provider == nil:
		response["ai"] = map[string]any{"available": false, "degradedMode": true}
		if status == http.StatusOK {
			response["status"] = "degraded"
		}
	default:
		info := provider.GetModelInfo(ctx)
		response["ai"] = info
		if !info.Available && status == http.StatusOK {
			response["status"] = "degraded"
		}
		if br, ok := provider.(breakerReporter); ok {
			response["circuit_breakers"] = br.CircuitBreakerStats()
		}
	}

	writeJSON(w, status, response)
}

// statsHandler reports server limits and rate limiter state
func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	response := map[string]any{
		"service": "resumeforge",
		"version": s.version,
		"server": map[string]any{
			"max_request_size_bytes": s.maxBody,
			"degraded_mode":          s.service.Degraded(),
		},
	}

	if s.limiter != nil {
		response["rate_limiting"] = s.limiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}
	response["rate_limit_config"] = map[string]any{
		"enabled":          s.cfg.RateLimit.Enabled,
		"requests_per_min": s.cfg.RateLimit.RequestsPerMin,
		"burst_capacity":   s.cfg.RateLimit.BurstCapacity,
		"by_ip":            s.cfg.RateLimit.ByIP,
	}

	writeJSON(w, http.StatusOK, response)
}
