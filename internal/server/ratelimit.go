package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"resumeforge/internal/errors"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	idle     time.Duration
	done     chan struct{}
	logger   *errors.Logger
}

// NewRateLimiter allows requestsPerMin per key with the given burst. Keys
// idle for longer than idle are dropped by a background sweep.
func NewRateLimiter(requestsPerMin, burst int, idle time.Duration, logger *errors.Logger) *RateLimiter {
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	if burst <= 0 {
		burst = 1
	}
	m := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
		idle:     idle,
		done:     make(chan struct{}),
		logger:   logger,
	}
	go m.cleanupRoutine(idle)
	return m
}

// limiter retrieves or creates the limiter for key
func (m *RateLimiter) limiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.limiters[key]
	if !ok {
		l = rate.NewLimiter(m.rate, m.burst)
		m.limiters[key] = l
	}
	m.lastSeen[key] = time.Now()
	return l
}

// Allow reports whether a request for key may proceed. It never blocks.
func (m *RateLimiter) Allow(key string) bool {
	return m.limiter(key).Allow()
}

// GetStats returns current rate limiter statistics
func (m *RateLimiter) GetStats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]any{
		"active_limiters": len(m.limiters),
		"rate_per_second": float64(m.rate),
		"rate_per_minute": float64(m.rate) * 60.0,
		"burst_capacity":  m.burst,
	}
}

func (m *RateLimiter) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup(time.Now())
		case <-m.done:
			return
		}
	}
}

// cleanup removes limiters unused since now minus the idle window
func (m *RateLimiter) cleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, seen := range m.lastSeen {
		if now.Sub(seen) > m.idle {
			delete(m.limiters, key)
			delete(m.lastSeen, key)
		}
	}
	if m.logger != nil {
		m.logger.Debug("Rate limiter cleanup completed", "remaining_limiters", len(m.limiters))
	}
}

// Close stops the cleanup goroutine
func (m *RateLimiter) Close() {
	close(m.done)
}

// rateLimitMiddleware rejects requests over the limit with 429
func (s *Server) rateLimitMiddleware(route string, next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	byIP := s.cfg.RateLimit.ByIP

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "global"
		if byIP {
			key = "ip:" + getClientIP(r)
		}

		if !s.limiter.Allow(key) {
			s.logger.Info("Rate limit exceeded",
				"key", key,
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			if s.obs != nil {
				s.obs.Metrics().RecordRateLimitHit(r.Context(), route)
			}
			w.Header().Set("Retry-After", "60")
			s.writeError(w, r, errors.NewValidationError(errors.ErrCodeRateLimited, "too many requests", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseFirstIP parses the first valid IP from a comma-separated list
func parseFirstIP(ips string) string {
	for ip := range strings.SplitSeq(ips, ",") {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) != nil {
			return ip
		}
	}
	return ""
}
