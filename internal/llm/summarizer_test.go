package llm

import (
	"strings"
	"testing"

	"github.com/omnichat-ai/omnichat/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyQuery(t *testing.T) {
	tests := []struct {
		query string
		want  queryKind
	}{
		{"how to deploy a go service", queryHowTo},
		{"python vs go for backends", queryComparison},
		{"top 10 programming languages", queryList},
		{"what is a goroutine", queryDefinition},
		{"latest release of kubernetes", queryNews},
		{"rest api architecture patterns", queryTechnical},
		{"tell me about the weather in paris", queryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyQuery(tt.query))
		})
	}
}

func TestClassifyQueryFirstMarkerWins(t *testing.T) {
	// "how to" outranks "best" even when both are present.
	assert.Equal(t, queryHowTo, classifyQuery("how to pick the best framework"))
}

func TestDedupeResultsDropsNearDuplicateTitles(t *testing.T) {
	results := []domain.SearchResult{
		{Title: "Go 1.24 Release Notes", URL: "https://go.dev/doc/go1.24"},
		{Title: "Go 1.24 Release Notes!", URL: "https://mirror.example.com/go1.24"},
		{Title: "Understanding Go Modules", URL: "https://blog.example.com/modules"},
	}

	deduped := dedupeResults(results)
	assert.Len(t, deduped, 2)
	assert.Equal(t, "https://go.dev/doc/go1.24", deduped[0].URL, "first occurrence must survive")
	assert.Equal(t, "Understanding Go Modules", deduped[1].Title)
}

func TestDedupeResultsKeepsDistinctTitles(t *testing.T) {
	results := []domain.SearchResult{
		{Title: "Go concurrency patterns"},
		{Title: "Rust ownership explained"},
	}

	assert.Len(t, dedupeResults(results), 2)
}

func TestTitleSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, titleSimilarity("same title", "same title"))
	assert.Greater(t, titleSimilarity("go release notes", "go release notes!"), 0.85)
	assert.Less(t, titleSimilarity("go concurrency", "rust ownership"), 0.3)
	assert.Equal(t, 0.0, titleSimilarity("", "something"))
}

func TestBuildSummaryPrompt(t *testing.T) {
	results := []domain.SearchResult{
		{Title: "First", Snippet: "snippet one", URL: "https://one.example.com/a"},
		{Title: "Second", Snippet: "snippet two", URL: "https://two.example.com/b"},
	}

	prompt := BuildSummaryPrompt("what is a goroutine", results)

	assert.Contains(t, prompt, `The question is: "what is a goroutine"`)
	assert.Contains(t, prompt, "[1] First")
	assert.Contains(t, prompt, "[2] Second")
	assert.Contains(t, prompt, "Source: https://one.example.com/a")
	assert.Contains(t, prompt, "domain name")
	assert.True(t, strings.HasPrefix(prompt, instructionFor(queryDefinition)))
}

func TestDisplayDomain(t *testing.T) {
	assert.Equal(t, "go.dev", DisplayDomain("https://go.dev/doc/"))
	assert.Equal(t, "example.com", DisplayDomain("https://www.example.com/page?q=1"))
	assert.Equal(t, "", DisplayDomain("not a url"))
}
