package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values. Every key needs a default
// so that AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	setAIDefaults(v)
	setServerDefaults(v)

	// App
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB

	// Database
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "data/resumeforge.db")
	v.SetDefault("database.maxConns", 10)

	// Auth
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.expirationHours", 24)
	v.SetDefault("auth.issuer", "resumeforge")
	v.SetDefault("auth.bcryptCost", 12)
	v.SetDefault("auth.pepper", "")

	// Scoring
	v.SetDefault("scoring.defaultMethod", "jobscan")

	// Export
	v.SetDefault("export.backend", ExportNone)
	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.bucket", "")
	v.SetDefault("export.region", "us-east-1")
	v.SetDefault("export.prefix", "resumes/")
	v.SetDefault("export.endpoint", "")

	// Vault
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.mount", "secret")
	v.SetDefault("vault.timeout", 10*time.Second)
	v.SetDefault("vault.secrets.aiKey", "")
	v.SetDefault("vault.secrets.jwtSecret", "")
	v.SetDefault("vault.secrets.database", "")

	setObservabilityDefaults(v)
}

func setAIDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.baseURL", "")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.useSystemPrompts", true)
	v.SetDefault("ai.promptsDir", "")
	v.SetDefault("ai.watchPrompts", true)

	v.SetDefault("ai.circuitBreaker.enabled", true)
	v.SetDefault("ai.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.circuitBreaker.failureThreshold", 0.6)

	// Keyword extraction and scoring-adjacent work wants low variance,
	// letters and interview answers a little more.
	v.SetDefault("ai.keywords.temperature", 0.1)
	v.SetDefault("ai.optimize.temperature", 0.3)
	v.SetDefault("ai.optimize.timeout", 90*time.Second)
	v.SetDefault("ai.coverLetter.temperature", 0.7)
	v.SetDefault("ai.interview.temperature", 0.5)
	v.SetDefault("ai.multiJob.temperature", 0.2)
	v.SetDefault("ai.multiJob.timeout", 90*time.Second)
	for _, op := range Operations {
		v.SetDefault("ai."+op+".model", "")
		v.SetDefault("ai."+op+".systemPrompt", "")
		v.SetDefault("ai."+op+".userPrompt", "")
	}
}

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 120*time.Second) // AI calls are slow
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.shutdownTimeout", 30*time.Second)
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")

	v.SetDefault("server.rateLimit.enabled", true)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.window", 10*time.Minute)
}

func setObservabilityDefaults(v *viper.Viper) {
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumeforge")
	v.SetDefault("observability.serviceVersion", "") // app version when empty
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metricsInterval", 15*time.Second)

	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.scoring.enabled", true)
	v.SetDefault("observability.customMetrics.scoring.trackDegraded", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)

	v.SetDefault("observability.console.prettyPrint", true)

	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	v.SetDefault("observability.healthCheck.timeout", 5*time.Second)
}
