package llm

import (
	"context"

	"github.com/omnichat-ai/omnichat/internal/config"
	"github.com/omnichat-ai/omnichat/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const openaiDefaultModel = "gpt-4o"

// OpenAIConnector completes prompts via the OpenAI chat completions API.
type OpenAIConnector struct {
	client *openai.Client
	model  string
}

// NewOpenAIConnector creates an OpenAI connector. The model from config
// overrides the pinned default.
func NewOpenAIConnector(cfg config.ProviderConfig) *OpenAIConnector {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openaiDefaultModel
	}

	return &OpenAIConnector{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Name returns the provider identifier
func (c *OpenAIConnector) Name() string { return "openai" }

// Model returns the pinned model identifier
func (c *OpenAIConnector) Model() string { return c.model }

// Complete generates one completion
func (c *OpenAIConnector) Complete(ctx context.Context, prompt string) (*domain.CompletionResult, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: completionMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt + formattingInstruction},
		},
	})
	if err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.UpstreamError{Provider: c.Name(), Message: "empty completion response"}
	}

	return &domain.CompletionResult{
		Content: resp.Choices[0].Message.Content,
		Model:   c.model,
	}, nil
}
