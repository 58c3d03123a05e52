package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"resumeforge/internal/ats"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
// Precedence, highest first:
// 1. Vault (if enabled) for ai.apiKey, auth.jwtSecret and database.dsn
// 2. Environment variables (RESUMEFORGE_AI_APIKEY, ...), including values from .env
// 3. Config file values
// 4. Default values
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Export        ExportConfig        `mapstructure:"export"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Vault         VaultConfig         `mapstructure:"vault"`

	// File the values were read from, empty when only defaults and env were used.
	Source string `mapstructure:"-"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// AIConfig holds the AI collaborator configuration. The top-level values apply
// to every operation unless the operation overrides them.
type AIConfig struct {
	Provider         string        `mapstructure:"provider"` // gemini or openai
	Model            string        `mapstructure:"model"`
	APIKey           string        `mapstructure:"apiKey"`
	BaseURL          string        `mapstructure:"baseURL"` // openai-compatible endpoints such as Groq
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	PromptsDir       string        `mapstructure:"promptsDir"`
	WatchPrompts     bool          `mapstructure:"watchPrompts"`

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`

	Keywords    OperationAIConfig `mapstructure:"keywords"`
	Optimize    OperationAIConfig `mapstructure:"optimize"`
	CoverLetter OperationAIConfig `mapstructure:"coverLetter"`
	Interview   OperationAIConfig `mapstructure:"interview"`
	MultiJob    OperationAIConfig `mapstructure:"multiJob"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Open to half-open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // 0.0-1.0
}

// OperationAIConfig overrides the global AI settings for one operation.
// Nil pointers fall back to the global value.
type OperationAIConfig struct {
	Model        string         `mapstructure:"model"`
	Timeout      *time.Duration `mapstructure:"timeout"`
	MaxRetries   *int           `mapstructure:"maxRetries"`
	Temperature  *float32       `mapstructure:"temperature"`
	SystemPrompt string         `mapstructure:"systemPrompt"`
	UserPrompt   string         `mapstructure:"userPrompt"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string          `mapstructure:"host"`
	Port            string          `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration   `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration   `mapstructure:"idleTimeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdownTimeout"`
	TLS             TLSConfig       `mapstructure:"tls"`
	RateLimit       RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig enables HTTPS when both files are set
type TLSConfig struct {
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// Enabled reports whether the server should terminate TLS itself
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	Window         time.Duration `mapstructure:"window"` // idle limiters older than this are dropped
}

// DatabaseConfig selects the storage backend
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres or sqlite
	DSN      string `mapstructure:"dsn"`
	MaxConns int    `mapstructure:"maxConns"`
}

// AuthConfig configures password hashing and bearer tokens
type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwtSecret"`
	ExpirationHours int    `mapstructure:"expirationHours"`
	Issuer          string `mapstructure:"issuer"`
	BcryptCost      int    `mapstructure:"bcryptCost"`
	Pepper          string `mapstructure:"pepper"`
}

// Expiration returns the token lifetime
func (a AuthConfig) Expiration() time.Duration {
	return time.Duration(a.ExpirationHours) * time.Hour
}

// ScoringConfig holds scoring defaults
type ScoringConfig struct {
	DefaultMethod string `mapstructure:"defaultMethod"`
}

// ExportConfig controls where exported documents are archived
type ExportConfig struct {
	Backend  string `mapstructure:"backend"` // none, local or s3
	Dir      string `mapstructure:"dir"`
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Prefix   string `mapstructure:"prefix"`
	Endpoint string `mapstructure:"endpoint"` // S3-compatible stores
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	MetricsInterval time.Duration       `mapstructure:"metricsInterval"` // push exporters only
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	AIOperations   AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	Scoring        ScoringMetricsConfig        `mapstructure:"scoring"`
	Infrastructure InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
}

// ScoringMetricsConfig holds scoring and degraded-mode metrics configuration
type ScoringMetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	TrackDegraded bool `mapstructure:"trackDegraded"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoadConfig loads configuration from .env, environment variables and a config
// file. An explicit path wins over the search paths.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUMEFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/resumeforge/")
		v.AddConfigPath("$HOME/.resumeforge")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Source = v.ConfigFileUsed()

	config.applyFallbacks()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid. A missing AI key is allowed:
// the application then runs in degraded mode.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("invalid AI provider: %s (must be %q or %q)", c.AI.Provider, ProviderGemini, ProviderOpenAI)
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	if c.AI.CircuitBreaker.Enabled {
		if t := c.AI.CircuitBreaker.FailureThreshold; t <= 0 || t > 1 {
			return fmt.Errorf("circuit breaker failureThreshold must be in (0, 1], got %v", t)
		}
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if (c.Server.TLS.CertFile == "") != (c.Server.TLS.KeyFile == "") {
		return fmt.Errorf("TLS requires both certFile and keyFile")
	}

	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("rate limit requestsPerMin must be positive")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid database driver: %s (must be %q or %q)", c.Database.Driver, DriverPostgres, DriverSQLite)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}

	if c.Auth.ExpirationHours <= 0 {
		return fmt.Errorf("auth expirationHours must be positive")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth bcryptCost must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}

	if _, err := ats.ParseMethod(c.Scoring.DefaultMethod); err != nil {
		return fmt.Errorf("invalid scoring defaultMethod: %w", err)
	}

	switch c.Export.Backend {
	case ExportNone:
	case ExportLocal:
		if c.Export.Dir == "" {
			return fmt.Errorf("export dir is required for the local backend")
		}
	case ExportS3:
		if c.Export.Bucket == "" {
			return fmt.Errorf("export bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid export backend: %s", c.Export.Backend)
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}

// Known enum values
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ExportNone  = "none"
	ExportLocal = "local"
	ExportS3    = "s3"
)
