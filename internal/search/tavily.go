package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/omnichat-ai/omnichat/internal/config"
	"github.com/omnichat-ai/omnichat/internal/domain"
)

const tavilySearchURL = "https://api.tavily.com/search"

// TavilyConnector searches via the Tavily research API. Tavily supplies its
// own relevance score per result, which is used verbatim.
type TavilyConnector struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewTavilyConnector creates a Tavily connector
func NewTavilyConnector(cfg config.KeyedEngineConfig) *TavilyConnector {
	return &TavilyConnector{
		apiKey:  cfg.APIKey,
		baseURL: tavilySearchURL,
		http:    newHTTPClient(),
	}
}

// Name returns the engine identifier
func (c *TavilyConnector) Name() string { return "tavily" }

// Configured reports whether the API key is present
func (c *TavilyConnector) Configured() bool { return c.apiKey != "" }

type tavilyResultItem struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type tavilySearchBody struct {
	Results []tavilyResultItem `json:"results"`
}

// Search runs one query against the Tavily API
func (c *TavilyConnector) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(defaultMaxResults))
	params.Set("search_depth", "advanced")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Err: err}
	}
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Provider: c.Name(),
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	var body tavilySearchBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Message: "malformed response", Err: err}
	}

	results := make([]domain.SearchResult, 0, len(body.Results))
	for _, item := range body.Results {
		results = append(results, domain.SearchResult{
			Title:          item.Title,
			URL:            item.URL,
			Snippet:        item.Content,
			DisplayURL:     "",
			Source:         c.Name(),
			RelevanceScore: item.Score,
		})
	}

	return &domain.SearchResponse{
		Results:      results,
		Query:        query,
		TotalResults: len(results),
	}, nil
}
