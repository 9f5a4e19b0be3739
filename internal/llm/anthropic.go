package llm

import (
	"context"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"github.com/omnichat-ai/omnichat/internal/config"
	"github.com/omnichat-ai/omnichat/internal/domain"
)

// Model identifiers tried in order until one answers. The first entry is the
// pinned default.
var anthropicModels = []string{
	"claude-3-sonnet-20240229",
	"claude-3-haiku-20240307",
	"claude-3-opus-20240229",
}

// AnthropicConnector completes prompts via the Anthropic messages API. When
// the pinned model is rejected it walks the fallback list before giving up.
type AnthropicConnector struct {
	client *anthropic.Client
	models []string
}

// NewAnthropicConnector creates an Anthropic connector. The model from config
// replaces the head of the fallback list.
func NewAnthropicConnector(cfg config.ProviderConfig) *AnthropicConnector {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	models := anthropicModels
	if cfg.Model != "" {
		models = append([]string{cfg.Model}, anthropicModels...)
	}

	return &AnthropicConnector{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		models: models,
	}
}

// Name returns the provider identifier
func (c *AnthropicConnector) Name() string { return "anthropic" }

// Model returns the pinned model identifier
func (c *AnthropicConnector) Model() string { return c.models[0] }

// Complete generates one completion, walking the model fallback list.
func (c *AnthropicConnector) Complete(ctx context.Context, prompt string) (*domain.CompletionResult, error) {
	var lastErr error
	for _, model := range c.models {
		resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
			Model:     anthropic.Model(model),
			MaxTokens: completionMaxTokens,
			Messages: []anthropic.Message{
				anthropic.NewUserTextMessage(prompt + formattingInstruction),
			},
		})
		if err != nil {
			lastErr = err
			continue
		}

		content := resp.GetFirstContentText()
		if content == "" {
			lastErr = nil
			continue
		}

		return &domain.CompletionResult{
			Content: content,
			Model:   model,
		}, nil
	}

	if lastErr != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Err: lastErr}
	}
	return nil, &domain.UpstreamError{Provider: c.Name(), Message: "empty completion response"}
}
