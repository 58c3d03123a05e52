package observability

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// newPrometheusExporter registers the OTel exporter on a private registry so
// that several managers can coexist in one process.
func newPrometheusExporter() (sdkmetric.Reader, http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}
	return exporter, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

// StartMetricsServer serves the Prometheus endpoint on its own port. It is a
// no-op when Prometheus is disabled.
func (m *Manager) StartMetricsServer() error {
	if m.metricsHandler == nil {
		return nil
	}

	endpoint := m.cfg.Prometheus.Endpoint
	if endpoint == "" {
		endpoint = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle("GET "+endpoint, m.metricsHandler)

	addr := net.JoinHostPort("", m.cfg.Prometheus.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	m.metricsServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if m.logger != nil {
		m.logger.Info("Starting Prometheus metrics server", "address", ln.Addr().String(), "endpoint", endpoint)
	}
	go func() {
		if err := m.metricsServer.Serve(ln); err != nil && err != http.ErrServerClosed && m.logger != nil {
			m.logger.LogError(err, "Prometheus server error")
		}
	}()
	return nil
}
