package ai

import (
	stderrors "errors"
	"testing"
	"time"

	"resumeforge/internal/config"

	"github.com/sony/gobreaker/v2"
)

func testBreakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
}

func TestCircuitBreakerNaming(t *testing.T) {
	cb := NewCircuitBreaker[string]("optimize", testBreakerConfig(), nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil")
	}

	stats := cb.GetStats()
	if name, _ := stats["name"].(string); name != "AI-optimize" {
		t.Errorf("Expected circuit breaker name 'AI-optimize', got '%v'", stats["name"])
	}
	if state, _ := stats["state"].(string); state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%v'", stats["state"])
	}
	if enabled, _ := stats["enabled"].(bool); !enabled {
		t.Error("Circuit breaker should be enabled")
	}
	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cb := NewCircuitBreaker[string]("disabled", config.CircuitBreakerConfig{Enabled: false}, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker still runs calls and reports healthy.
	got, err := cb.Execute(func() (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Errorf("Execute() = %q, %v; want ok, nil", got, err)
	}
	if !cb.IsHealthy() {
		t.Error("disabled breaker should report healthy")
	}
	if enabled, _ := cb.GetStats()["enabled"].(bool); enabled {
		t.Error("disabled breaker stats should say enabled=false")
	}
}

func TestCircuitBreakerTrips(t *testing.T) {
	cb := NewCircuitBreaker[string]("keywords", testBreakerConfig(), nil)
	boom := stderrors.New("boom")

	for range 2 {
		if _, err := cb.Execute(func() (string, error) { return "", boom }); !stderrors.Is(err, boom) {
			t.Fatalf("Execute() error = %v, want boom", err)
		}
	}

	if cb.IsHealthy() {
		t.Fatal("breaker should be open after reaching the failure threshold")
	}

	called := false
	_, err := cb.Execute(func() (string, error) {
		called = true
		return "", nil
	})
	if !stderrors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Execute() on open breaker error = %v, want ErrOpenState", err)
	}
	if called {
		t.Error("open breaker must not run the call")
	}
}

func TestBreakerSetIndependent(t *testing.T) {
	set := newBreakerSet(testBreakerConfig(), nil)
	if len(set) != len(config.Operations) {
		t.Fatalf("breaker set has %d entries, want %d", len(set), len(config.Operations))
	}

	boom := stderrors.New("boom")
	for range 2 {
		_, _ = set[config.OpOptimize].Execute(func() (*completion, error) { return nil, boom })
	}

	if set[config.OpOptimize].IsHealthy() {
		t.Error("optimize breaker should be open")
	}
	if !set[config.OpKeywords].IsHealthy() {
		t.Error("keywords breaker should be unaffected by optimize failures")
	}

	stats := set.Stats()
	if healthy, _ := stats["overall_healthy"].(bool); healthy {
		t.Error("overall_healthy should be false while one breaker is open")
	}
}
