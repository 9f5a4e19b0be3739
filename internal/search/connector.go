// Package search provides web search connectors and a priority-ordered
// aggregator over them. Each connector wraps one external search API and
// normalizes its response; the aggregator returns the first success.
package search

import (
	"context"
	"net/http"
	"time"

	"github.com/omnichat-ai/omnichat/internal/domain"
)

// Connector wraps exactly one external search provider behind a normalized
// contract. Implementations must be safe for concurrent use.
type Connector interface {
	// Name returns the engine identifier recorded on results.
	Name() string

	// Configured reports whether the connector's required credentials are
	// present. Unconfigured connectors are skipped by the aggregator without
	// counting as failures.
	Configured() bool

	// Search runs one query and normalizes the provider's native result
	// fields. It fails with *domain.UpstreamError when the provider is
	// unreachable, returns malformed data, or signals a non-success status.
	Search(ctx context.Context, query string) (*domain.SearchResponse, error)
}

// defaultMaxResults bounds how many results a connector requests upstream.
const defaultMaxResults = 5

// newHTTPClient builds the client used for search calls. Timeouts are
// enforced here, not at the orchestrator level; a timed-out call surfaces as
// an ordinary connector failure.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// Connector-assigned relevance constants. They express the trust ranking
// among engines and double as a tie-break signal downstream. Tavily is absent
// because it forwards the upstream score verbatim.
const (
	googleRelevance     = 0.9
	serperRelevance     = 0.85
	braveRelevance      = 0.75
	duckduckgoRelevance = 0.6
)
