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

const braveSearchURL = "https://api.search.brave.com/res/v1/web/search"

// BraveConnector searches via the Brave Search API.
type BraveConnector struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewBraveConnector creates a Brave Search connector
func NewBraveConnector(cfg config.KeyedEngineConfig) *BraveConnector {
	return &BraveConnector{
		apiKey:  cfg.APIKey,
		baseURL: braveSearchURL,
		http:    newHTTPClient(),
	}
}

// Name returns the engine identifier
func (c *BraveConnector) Name() string { return "brave" }

// Configured reports whether the subscription token is present
func (c *BraveConnector) Configured() bool { return c.apiKey != "" }

type braveWebResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Profile     struct {
		LongName string `json:"long_name"`
	} `json:"profile"`
}

type braveSearchBody struct {
	Web struct {
		Results []braveWebResult `json:"results"`
	} `json:"web"`
}

// Search runs one query against the Brave Search API
func (c *BraveConnector) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(defaultMaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Err: err}
	}
	req.Header.Set("X-Subscription-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

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

	var body braveSearchBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Message: "malformed response", Err: err}
	}

	items := body.Web.Results
	if len(items) > defaultMaxResults {
		items = items[:defaultMaxResults]
	}

	results := make([]domain.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, domain.SearchResult{
			Title:          item.Title,
			URL:            item.URL,
			Snippet:        item.Description,
			DisplayURL:     item.Profile.LongName,
			Source:         c.Name(),
			RelevanceScore: braveRelevance,
		})
	}

	return &domain.SearchResponse{
		Results:      results,
		Query:        query,
		TotalResults: len(results),
	}, nil
}
