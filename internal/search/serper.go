package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/omnichat-ai/omnichat/internal/config"
	"github.com/omnichat-ai/omnichat/internal/domain"
)

const serperSearchURL = "https://google.serper.dev/search"

// SerperConnector searches via the Serper.dev Google proxy API.
type SerperConnector struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewSerperConnector creates a Serper connector
func NewSerperConnector(cfg config.KeyedEngineConfig) *SerperConnector {
	return &SerperConnector{
		apiKey:  cfg.APIKey,
		baseURL: serperSearchURL,
		http:    newHTTPClient(),
	}
}

// Name returns the engine identifier
func (c *SerperConnector) Name() string { return "serper" }

// Configured reports whether the API key is present
func (c *SerperConnector) Configured() bool { return c.apiKey != "" }

type serperOrganicItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serperSearchBody struct {
	Organic []serperOrganicItem `json:"organic"`
}

// Search runs one query against the Serper API
func (c *SerperConnector) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	payload, err := json.Marshal(map[string]any{
		"q":   query,
		"num": defaultMaxResults,
	})
	if err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Err: err}
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

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

	var body serperSearchBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Message: "malformed response", Err: err}
	}

	organic := body.Organic
	if len(organic) > defaultMaxResults {
		organic = organic[:defaultMaxResults]
	}

	results := make([]domain.SearchResult, 0, len(organic))
	for _, item := range organic {
		results = append(results, domain.SearchResult{
			Title:          item.Title,
			URL:            item.Link,
			Snippet:        item.Snippet,
			DisplayURL:     "",
			Source:         c.Name(),
			RelevanceScore: serperRelevance,
		})
	}

	return &domain.SearchResponse{
		Results:      results,
		Query:        query,
		TotalResults: len(results),
	}, nil
}
