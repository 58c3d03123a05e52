package config

import "time"

// AI operation names. They key the per-operation config blocks and the
// prompt files in ai.promptsDir.
const (
	OpKeywords    = "keywords"
	OpOptimize    = "optimize"
	OpCoverLetter = "coverLetter"
	OpInterview   = "interview"
	OpMultiJob    = "multiJob"
)

// Operations lists every AI operation
var Operations = []string{OpKeywords, OpOptimize, OpCoverLetter, OpInterview, OpMultiJob}

// ResolvedOperation is an operation's effective AI settings after fallbacks
type ResolvedOperation struct {
	Provider         string
	Model            string
	APIKey           string
	BaseURL          string
	Timeout          time.Duration
	MaxRetries       int
	Temperature      float32
	UseSystemPrompts bool
	SystemPrompt     string
	UserPrompt       string
	CircuitBreaker   CircuitBreakerConfig
}

// operation returns the raw override block for op
func (a *AIConfig) operation(op string) OperationAIConfig {
	switch op {
	case OpKeywords:
		return a.Keywords
	case OpOptimize:
		return a.Optimize
	case OpCoverLetter:
		return a.CoverLetter
	case OpInterview:
		return a.Interview
	case OpMultiJob:
		return a.MultiJob
	default:
		return OperationAIConfig{}
	}
}

// Operation returns the effective settings for op with global fallbacks applied
func (c *Config) Operation(op string) ResolvedOperation {
	opCfg := c.AI.operation(op)

	resolved := ResolvedOperation{
		Provider:         c.AI.Provider,
		Model:            c.AI.Model,
		APIKey:           c.AI.APIKey,
		BaseURL:          c.AI.BaseURL,
		Timeout:          c.AI.Timeout,
		MaxRetries:       c.AI.MaxRetries,
		Temperature:      c.AI.Temperature,
		UseSystemPrompts: c.AI.UseSystemPrompts,
		SystemPrompt:     opCfg.SystemPrompt,
		UserPrompt:       opCfg.UserPrompt,
		CircuitBreaker:   c.AI.CircuitBreaker,
	}
	if opCfg.Model != "" {
		resolved.Model = opCfg.Model
	}
	if opCfg.Timeout != nil {
		resolved.Timeout = *opCfg.Timeout
	}
	if opCfg.MaxRetries != nil {
		resolved.MaxRetries = *opCfg.MaxRetries
	}
	if opCfg.Temperature != nil {
		resolved.Temperature = *opCfg.Temperature
	}
	return resolved
}
