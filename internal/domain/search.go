package domain

// SearchResult is a single normalized web search result. Immutable once
// constructed by a connector.
type SearchResult struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Snippet        string  `json:"snippet"`
	DisplayURL     string  `json:"displayUrl"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// SearchResponse holds the results of one search invocation. Engine-ranked
// order is preserved.
type SearchResponse struct {
	Results      []SearchResult `json:"results"`
	Query        string         `json:"query"`
	TotalResults int            `json:"totalResults"`
}
