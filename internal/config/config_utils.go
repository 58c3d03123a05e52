package config

import (
	"fmt"
	"os"
	"strings"
)

// applyFallbacks fills values derived from other settings
func (c *Config) applyFallbacks() {
	c.Scoring.DefaultMethod = strings.ToLower(strings.TrimSpace(c.Scoring.DefaultMethod))
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))

	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// MaskSecret keeps the first and last four characters of long secrets
func MaskSecret(s string) string {
	switch {
	case len(s) > 8:
		return s[:4] + "****" + s[len(s)-4:]
	case s != "":
		return "****"
	default:
		return ""
	}
}

// Summary returns loggable key/value pairs describing the effective
// configuration with secrets masked.
func (c *Config) Summary() []any {
	source := c.Source
	if source == "" {
		source = "none"
	}
	return []any{
		"config_file", source,
		"ai_provider", c.AI.Provider,
		"ai_model", c.AI.Model,
		"ai_key_configured", c.AI.APIKey != "",
		"database_driver", c.Database.Driver,
		"server_addr", c.Server.Host + ":" + c.Server.Port,
		"tls", c.Server.TLS.Enabled(),
		"scoring_method", c.Scoring.DefaultMethod,
		"export_backend", c.Export.Backend,
		"vault_enabled", c.Vault.Enabled,
		"observability_enabled", c.Observability.Enabled,
	}
}
