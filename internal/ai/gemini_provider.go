package ai

import (
	"context"
	"fmt"
	"time"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider for Google Gemini with structured JSON output
type GeminiProvider struct {
	*engine
	client       *genai.Client
	model        string
	modelBreaker *CircuitBreaker[*genai.Model]
	checkTimeout time.Duration
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider using the global AI settings
func NewGeminiProvider(cfg *config.Config, store *config.PromptStore, logger *errors.Logger, recorder Recorder) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.AI.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	// Model lookups are less critical than generation, so trip later.
	modelCB := cfg.AI.CircuitBreaker
	modelCB.MinRequests = max(modelCB.MinRequests, 5)
	modelCB.FailureThreshold = max(modelCB.FailureThreshold, 0.8)

	g := &GeminiProvider{
		client:       client,
		model:        cfg.AI.Model,
		modelBreaker: NewCircuitBreaker[*genai.Model]("model", modelCB, logger),
		checkTimeout: cfg.Observability.HealthCheck.Timeout,
	}
	g.engine = newEngine(config.ProviderGemini, cfg, store, logger, recorder, g.generate)
	return g, nil
}

// generate sends one request with the operation's response schema
func (g *GeminiProvider) generate(ctx context.Context, operation string, op config.ResolvedOperation, system, user string) (*completion, error) {
	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   genaiSchemas[operation],
	}
	if op.Temperature > 0 {
		t := op.Temperature
		genCfg.Temperature = &t
	}
	if system != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, op.Model, genai.Text(user), genCfg)
	if err != nil {
		return nil, err
	}
	return &completion{Text: result.Text(), Usage: extractTokenUsage(result)}, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Provider: config.ProviderGemini,
		Name:     g.model,
	}

	timeout := g.checkTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		if g.logger != nil {
			g.logger.Warn("Model availability check failed",
				"model", g.model,
				"provider", config.ProviderGemini,
				"error", err.Error())
		}
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version
	return modelInfo
}

// Close implements Provider. The genai client holds no resources in unary mode.
func (g *GeminiProvider) Close() error {
	return nil
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
