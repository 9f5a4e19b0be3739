package search

import (
	"context"

	"github.com/omnichat-ai/omnichat/internal/domain"
	"github.com/omnichat-ai/omnichat/internal/metrics"
	"go.uber.org/zap"
)

// Aggregator tries connectors in a fixed priority order (most trusted first)
// and returns the first success verbatim. It never merges results across
// engines: search is a prerequisite step blocking the completion call, so
// first-success-wins bounds latency.
type Aggregator struct {
	connectors []Connector
	logger     *zap.Logger
}

// NewAggregator creates an aggregator over the given connectors. The slice
// order is the priority order.
func NewAggregator(logger *zap.Logger, connectors ...Connector) *Aggregator {
	return &Aggregator{connectors: connectors, logger: logger}
}

// Aggregate runs the fallback chain for one query.
//
// Connectors whose credentials are absent are skipped without counting as
// failures. It returns domain.ErrNoProviderConfigured when zero connectors
// are eligible, and domain.ErrNoResultsAvailable when every eligible
// connector fails or returns an empty result set.
func (a *Aggregator) Aggregate(ctx context.Context, query string) (*domain.SearchResponse, error) {
	eligible := 0
	for _, c := range a.connectors {
		if !c.Configured() {
			continue
		}
		eligible++

		resp, err := c.Search(ctx, query)
		metrics.SearchRequests.WithLabelValues(c.Name(), metrics.StatusFor(err)).Inc()
		if err != nil {
			a.logger.Warn("search connector failed, trying next",
				zap.String("engine", c.Name()),
				zap.Error(err),
			)
			continue
		}
		if len(resp.Results) == 0 {
			a.logger.Warn("search connector returned no results, trying next",
				zap.String("engine", c.Name()),
				zap.String("query", query),
			)
			continue
		}

		a.logger.Info("search succeeded",
			zap.String("engine", c.Name()),
			zap.Int("results", len(resp.Results)),
		)
		return resp, nil
	}

	if eligible == 0 {
		return nil, domain.ErrNoProviderConfigured
	}
	return nil, domain.ErrNoResultsAvailable
}

// Engines returns the names of eligible connectors in priority order.
func (a *Aggregator) Engines() []string {
	var names []string
	for _, c := range a.connectors {
		if c.Configured() {
			names = append(names, c.Name())
		}
	}
	return names
}
