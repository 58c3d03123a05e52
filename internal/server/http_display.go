package server

// displayServerInfo logs the effective server configuration at startup
func (s *Server) displayServerInfo(addr string) {
	s.logger.Info("Starting HTTP server",
		"address", addr,
		"tls_enabled", s.cfg.TLS.Enabled(),
		"degraded_mode", s.service.Degraded())

	if s.maxBody > 0 {
		s.logger.Info("Request size limit", "bytes", s.maxBody)
	} else {
		s.logger.Warn("Request size limit disabled")
	}

	if s.limiter != nil {
		s.logger.Info("Rate limiting enabled",
			"requests_per_min", s.cfg.RateLimit.RequestsPerMin,
			"burst", s.cfg.RateLimit.BurstCapacity,
			"by_ip", s.cfg.RateLimit.ByIP)
	} else {
		s.logger.Warn("Rate limiting disabled")
	}
}
