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

const googleSearchURL = "https://www.googleapis.com/customsearch/v1"

// GoogleConnector searches via the Google Custom Search JSON API. It is the
// most trusted engine and sits first in the aggregator's priority order.
type GoogleConnector struct {
	apiKey   string
	engineID string
	baseURL  string
	http     *http.Client
}

// NewGoogleConnector creates a Google Custom Search connector
func NewGoogleConnector(cfg config.GoogleSearchConfig) *GoogleConnector {
	return &GoogleConnector{
		apiKey:   cfg.APIKey,
		engineID: cfg.EngineID,
		baseURL:  googleSearchURL,
		http:     newHTTPClient(),
	}
}

// Name returns the engine identifier
func (c *GoogleConnector) Name() string { return "google" }

// Configured reports whether both the API key and engine ID are present
func (c *GoogleConnector) Configured() bool {
	return c.apiKey != "" && c.engineID != ""
}

type googleSearchItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

type googleSearchBody struct {
	Items             []googleSearchItem `json:"items"`
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
}

// Search runs one query against the Custom Search API
func (c *GoogleConnector) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(defaultMaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Err: err}
	}

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

	var body googleSearchBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Message: "malformed response", Err: err}
	}

	results := make([]domain.SearchResult, 0, len(body.Items))
	for _, item := range body.Items {
		results = append(results, domain.SearchResult{
			Title:          item.Title,
			URL:            item.Link,
			Snippet:        item.Snippet,
			DisplayURL:     item.DisplayLink,
			Source:         c.Name(),
			RelevanceScore: googleRelevance,
		})
	}

	total, _ := strconv.Atoi(body.SearchInformation.TotalResults)
	if total < len(results) {
		total = len(results)
	}

	return &domain.SearchResponse{
		Results:      results,
		Query:        query,
		TotalResults: total,
	}, nil
}
