package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/omnichat-ai/omnichat/internal/domain"
	"go.uber.org/zap"
)

// Synthesizer combines several per-provider answers into one by asking a
// designated arbiter connector for a best-of synthesis.
type Synthesizer struct {
	arbiter Connector
	logger  *zap.Logger
}

// NewSynthesizer creates a synthesizer with the given arbiter connector.
func NewSynthesizer(arbiter Connector, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{arbiter: arbiter, logger: logger}
}

// Model returns the arbiter's model identifier, or "" when no arbiter is
// configured.
func (s *Synthesizer) Model() string {
	if s.arbiter == nil {
		return ""
	}
	return s.arbiter.Model()
}

// Synthesize produces a single combined answer from the responses.
//
// Error placeholders are ignored. With fewer than two usable responses the
// synthesis step is skipped and the sole content is returned unchanged. When
// the arbiter call fails, the error wraps domain.ErrSynthesisUnavailable so
// the caller can fall back to the first usable response.
func (s *Synthesizer) Synthesize(ctx context.Context, responses []domain.CompletionResult) (string, error) {
	var usable []domain.CompletionResult
	for _, r := range responses {
		if !r.IsError() {
			usable = append(usable, r)
		}
	}

	if len(usable) == 0 {
		return "", fmt.Errorf("%w: no usable responses", domain.ErrSynthesisUnavailable)
	}
	if len(usable) == 1 {
		return usable[0].Content, nil
	}
	if s.arbiter == nil {
		return "", fmt.Errorf("%w: no arbiter configured", domain.ErrSynthesisUnavailable)
	}

	result, err := s.arbiter.Complete(ctx, buildSynthesisPrompt(usable))
	if err != nil {
		s.logger.Warn("synthesis arbiter failed",
			zap.String("provider", s.arbiter.Name()),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", domain.ErrSynthesisUnavailable, err)
	}

	return result.Content, nil
}

func buildSynthesisPrompt(responses []domain.CompletionResult) string {
	var b strings.Builder
	b.WriteString("Several AI models answered the same question. Combine their answers into one single best answer. ")
	b.WriteString("Keep the strongest points from each, resolve contradictions in favor of the majority, and do not mention the individual models or that multiple answers were given.\n")

	for i, r := range responses {
		fmt.Fprintf(&b, "\nAnswer %d (from %s):\n%s\n", i+1, r.Model, r.Content)
	}

	b.WriteString("\nCombined answer:")
	return b.String()
}
