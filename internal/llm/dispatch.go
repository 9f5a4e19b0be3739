package llm

import (
	"context"
	"sync"

	"github.com/omnichat-ai/omnichat/internal/domain"
	"github.com/omnichat-ai/omnichat/internal/metrics"
	"go.uber.org/zap"
)

// Dispatcher fans one prompt out to several connectors concurrently and
// waits for all of them to settle. One provider's failure never cancels its
// siblings; failures become placeholder entries so the result always has
// exactly one entry per requested provider, in request order.
type Dispatcher struct {
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// CompleteAll invokes every connector concurrently with the same prompt.
// The returned slice preserves the connectors' order regardless of which
// provider answers first.
func (d *Dispatcher) CompleteAll(ctx context.Context, connectors []Connector, prompt string) *domain.MultiCompletionResult {
	responses := make([]domain.CompletionResult, len(connectors))

	var wg sync.WaitGroup
	for i, c := range connectors {
		wg.Add(1)
		go func(i int, c Connector) {
			defer wg.Done()

			result, err := c.Complete(ctx, prompt)
			metrics.CompletionRequests.WithLabelValues(c.Name(), metrics.StatusFor(err)).Inc()
			if err != nil {
				d.logger.Warn("completion provider failed",
					zap.String("provider", c.Name()),
					zap.Error(err),
				)
				responses[i] = domain.ErrorCompletion(c.Name(), err)
				return
			}
			responses[i] = *result
		}(i, c)
	}
	wg.Wait()

	return &domain.MultiCompletionResult{Responses: responses}
}

// CompleteOne invokes a single connector, recording metrics the same way the
// fan-out does.
func (d *Dispatcher) CompleteOne(ctx context.Context, c Connector, prompt string) (*domain.CompletionResult, error) {
	result, err := c.Complete(ctx, prompt)
	metrics.CompletionRequests.WithLabelValues(c.Name(), metrics.StatusFor(err)).Inc()
	if err != nil {
		d.logger.Warn("completion provider failed",
			zap.String("provider", c.Name()),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}
