package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/omnichat-ai/omnichat/internal/config"
	"github.com/omnichat-ai/omnichat/internal/domain"
)

const duckduckgoSearchURL = "https://html.duckduckgo.com/html/"

// DuckDuckGoConnector scrapes the DuckDuckGo HTML results page. It needs no
// credentials and serves as the last-resort engine in the priority order.
type DuckDuckGoConnector struct {
	enabled bool
	baseURL string
	http    *http.Client
}

// NewDuckDuckGoConnector creates a DuckDuckGo connector
func NewDuckDuckGoConnector(cfg config.DuckDuckGoConfig) *DuckDuckGoConnector {
	return &DuckDuckGoConnector{
		enabled: cfg.Enabled,
		baseURL: duckduckgoSearchURL,
		http:    newHTTPClient(),
	}
}

// Name returns the engine identifier
func (c *DuckDuckGoConnector) Name() string { return "duckduckgo" }

// Configured reports whether the connector is enabled. No credentials are
// required, so eligibility is a plain config switch.
func (c *DuckDuckGoConnector) Configured() bool { return c.enabled }

// Search scrapes one results page
func (c *DuckDuckGoConnector) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

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

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: c.Name(), Message: "malformed response", Err: err}
	}

	var results []domain.SearchResult
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}

		results = append(results, domain.SearchResult{
			Title:          strings.TrimSpace(link.Text()),
			URL:            resolveRedirect(href),
			Snippet:        strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
			DisplayURL:     strings.TrimSpace(sel.Find(".result__url").First().Text()),
			Source:         c.Name(),
			RelevanceScore: duckduckgoRelevance,
		})
		return len(results) < defaultMaxResults
	})

	return &domain.SearchResponse{
		Results:      results,
		Query:        query,
		TotalResults: len(results),
	}, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the
// target URL. Direct links pass through unchanged.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
