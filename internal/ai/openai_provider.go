package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"

	"github.com/sashabaranov/go-openai"
)

// errEmptyReply is returned when a chat completion carries no choices
var errEmptyReply = stderrors.New("empty response from model")

// OpenAIProvider implements Provider for OpenAI-compatible chat APIs (OpenAI, Groq)
type OpenAIProvider struct {
	*engine
	client       *openai.Client
	model        string
	modelBreaker *CircuitBreaker[openai.Model]
	checkTimeout time.Duration
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a provider for ai.baseURL, or the OpenAI API when it is empty
func NewOpenAIProvider(cfg *config.Config, store *config.PromptStore, logger *errors.Logger, recorder Recorder) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.AI.APIKey)
	if cfg.AI.BaseURL != "" {
		clientCfg.BaseURL = cfg.AI.BaseURL
	}
	return newOpenAIProvider(openai.NewClientWithConfig(clientCfg), cfg, store, logger, recorder)
}

func newOpenAIProvider(client *openai.Client, cfg *config.Config, store *config.PromptStore, logger *errors.Logger, recorder Recorder) *OpenAIProvider {
	o := &OpenAIProvider{
		client:       client,
		model:        cfg.AI.Model,
		modelBreaker: NewCircuitBreaker[openai.Model]("model", cfg.AI.CircuitBreaker, logger),
		checkTimeout: cfg.Observability.HealthCheck.Timeout,
	}
	o.engine = newEngine(config.ProviderOpenAI, cfg, store, logger, recorder, o.complete)
	return o
}

// complete sends one chat completion in JSON mode
func (o *OpenAIProvider) complete(ctx context.Context, _ string, op config.ResolvedOperation, system, user string) (*completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: user})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       op.Model,
		Messages:    messages,
		Temperature: op.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errEmptyReply
	}

	return &completion{
		Text: resp.Choices[0].Message.Content,
		Usage: &TokenUsage{
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
			TotalTokens:  int64(resp.Usage.TotalTokens),
		},
	}, nil
}

// GetModelInfo looks the configured model up on the models endpoint
func (o *OpenAIProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Provider: config.ProviderOpenAI, Name: o.model}

	timeout := o.checkTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model, err := o.modelBreaker.Execute(func() (openai.Model, error) {
		return o.client.GetModel(checkCtx, o.model)
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		if o.logger != nil {
			o.logger.Warn("Model availability check failed",
				"model", o.model,
				"provider", config.ProviderOpenAI,
				"error", err.Error())
		}
		return info
	}

	info.Available = true
	info.DisplayName = model.ID
	info.Version = model.OwnedBy
	return info
}

// Close implements Provider
func (o *OpenAIProvider) Close() error {
	return nil
}
