package ai

import (
	"fmt"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

// NewProvider creates the configured provider. It returns a nil Provider and
// no error when no API key is configured; callers then run in degraded mode.
func NewProvider(cfg *config.Config, store *config.PromptStore, logger *errors.Logger, recorder Recorder) (Provider, error) {
	if cfg.AI.APIKey == "" {
		logger.Warn("No AI API key configured, AI features run in degraded mode",
			"provider", cfg.AI.Provider)
		return nil, nil
	}

	logger.Debug("Initializing AI provider",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"base_url", cfg.AI.BaseURL,
		"timeout", cfg.AI.Timeout,
		"max_retries", cfg.AI.MaxRetries,
		"use_system_prompts", cfg.AI.UseSystemPrompts)

	switch cfg.AI.Provider {
	case config.ProviderGemini:
		p, err := NewGeminiProvider(cfg, store, logger, recorder)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg, store, logger, recorder), nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.AI.Provider), nil)
	}
}
