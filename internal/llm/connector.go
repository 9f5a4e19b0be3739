// Package llm provides completion connectors for hosted AI providers, a
// registry keyed by provider name, a concurrent multi-provider dispatcher,
// and a synthesizer that combines several model answers into one.
package llm

import (
	"context"

	"github.com/omnichat-ai/omnichat/internal/domain"
)

// Connector wraps exactly one external completion provider behind a
// normalized contract. Implementations must be safe for concurrent use.
type Connector interface {
	// Name returns the provider identifier used for registry lookup.
	Name() string

	// Model returns the pinned model identifier reported on results.
	Model() string

	// Complete generates one completion for the prompt. It fails with
	// *domain.UpstreamError carrying the provider's error message.
	Complete(ctx context.Context, prompt string) (*domain.CompletionResult, error)
}

// formattingInstruction is appended to every caller-supplied prompt. The
// presentation layer renders plain text, so models are told to keep markup
// out of their answers. Connectors forward this string without interpreting
// it.
const formattingInstruction = "\n\nFormat your answer as plain text. Do not use markdown symbols such as #, *, - or backticks."

// completionMaxTokens bounds answer length across all providers.
const completionMaxTokens = 800
