package llm

import (
	"context"

	"github.com/omnichat-ai/omnichat/internal/config"
	"github.com/omnichat-ai/omnichat/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

// Gemini is reached through Google's OpenAI-compatible endpoint.
const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// Model identifiers tried in order until one answers. The first entry is the
// pinned default.
var geminiModels = []string{
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-pro",
}

// GeminiConnector completes prompts via Google's Gemini models. When the
// pinned model is rejected it walks the fallback list before giving up.
type GeminiConnector struct {
	client *openai.Client
	models []string
}

// NewGeminiConnector creates a Gemini connector. The model from config
// replaces the head of the fallback list.
func NewGeminiConnector(cfg config.ProviderConfig) *GeminiConnector {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = geminiDefaultBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	models := geminiModels
	if cfg.Model != "" {
		models = append([]string{cfg.Model}, geminiModels...)
	}

	return &GeminiConnector{
		client: openai.NewClientWithConfig(clientCfg),
		models: models,
	}
}

// Name returns the provider identifier
func (c *GeminiConnector) Name() string { return "gemini" }

// Model returns the pinned model identifier
func (c *GeminiConnector) Model() string { return c.models[0] }

// Complete generates one completion, walking the model fallback list.
func (c *GeminiConnector) Complete(ctx context.Context, prompt string) (*domain.CompletionResult, error) {
	var lastErr error
	for _, model := range c.models {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     model,
			MaxTokens: completionMaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt + formattingInstruction},
			},
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = nil
			continue
		}

		return &domain.CompletionResult{
			Content: resp.Choices[0].Message.Content,
			Model:   model,
		}, nil
	}

	if lastErr != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Err: lastErr}
	}
	return nil, &domain.UpstreamError{Provider: c.Name(), Message: "empty completion response"}
}
