package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/omnichat-ai/omnichat/internal/domain"
	"github.com/omnichat-ai/omnichat/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConnector struct {
	name    string
	model   string
	content string
	err     error
	calls   atomic.Int32
	prompts []string
}

func (f *fakeConnector) Name() string  { return f.name }
func (f *fakeConnector) Model() string { return f.model }

func (f *fakeConnector) Complete(ctx context.Context, prompt string) (*domain.CompletionResult, error) {
	f.calls.Add(1)
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CompletionResult{Content: f.content, Model: f.model}, nil
}

type fakeSearch struct {
	resp    *domain.SearchResponse
	err     error
	engines []string
	calls   int
}

func (f *fakeSearch) Aggregate(ctx context.Context, query string) (*domain.SearchResponse, error) {
	f.calls++
	return f.resp, f.err
}

func (f *fakeSearch) Engines() []string { return f.engines }

type fakeSynthesizer struct {
	combined string
	model    string
	err      error
	calls    int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, responses []domain.CompletionResult) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.combined, nil
}

func (f *fakeSynthesizer) Model() string { return f.model }

func threeResults() *domain.SearchResponse {
	return &domain.SearchResponse{
		Results: []domain.SearchResult{
			{Title: "One", URL: "https://one.example.com", Snippet: "a"},
			{Title: "Two", URL: "https://two.example.com", Snippet: "b"},
			{Title: "Three", URL: "https://three.example.com", Snippet: "c"},
		},
		Query:        "q",
		TotalResults: 3,
	}
}

func newTestOrchestrator(search SearchProvider, synth ResponseSynthesizer, connectors ...llm.Connector) *Orchestrator {
	return NewOrchestrator(
		llm.NewRegistryWith(connectors...),
		search,
		llm.NewDispatcher(zap.NewNop()),
		synth,
		"openai",
		zap.NewNop(),
	)
}

func TestNeedsSearch(t *testing.T) {
	o := newTestOrchestrator(&fakeSearch{}, &fakeSynthesizer{}, &fakeConnector{name: "openai", model: "gpt-4o"})

	tests := []struct {
		content string
		want    bool
	}{
		{"What's the latest news on AI in 2025?", true},
		{"search for gin middleware examples", true},
		{"Any recent updates?", true},
		{"Summarize the plot of Hamlet", false},
		{"Explain how append works in Go", false},
		{"researching history", false},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, o.NeedsSearch(tt.content))
		})
	}
}

func TestNeedsSearchYearTokens(t *testing.T) {
	o := newTestOrchestrator(&fakeSearch{}, &fakeSynthesizer{}, &fakeConnector{name: "openai", model: "gpt-4o"})

	// The previous, current, and next calendar years all trigger.
	assert.True(t, o.NeedsSearch("top frameworks of 2025"))
	assert.True(t, o.NeedsSearch("top frameworks of 2026"))
	assert.True(t, o.NeedsSearch("plans for 2027"))
	assert.False(t, o.NeedsSearch("what happened in 1969"))
}

func TestRunTurnNoProvidersConfigured(t *testing.T) {
	o := newTestOrchestrator(&fakeSearch{}, &fakeSynthesizer{})

	_, err := o.RunTurn(context.Background(), TurnInput{Content: "hello"})
	assert.ErrorIs(t, err, domain.ErrNoProviderConfigured)
}

func TestRunTurnSearchSummaryReplacesCompletion(t *testing.T) {
	openaiConn := &fakeConnector{name: "openai", model: "gpt-4o", content: "summary of results"}
	anthropicConn := &fakeConnector{name: "anthropic", model: "claude-3-sonnet-20240229", content: "unused"}
	geminiConn := &fakeConnector{name: "gemini", model: "gemini-1.5-pro", content: "unused"}
	synth := &fakeSynthesizer{combined: "unused", model: "gpt-4o"}
	search := &fakeSearch{resp: threeResults()}

	o := newTestOrchestrator(search, synth, openaiConn, anthropicConn, geminiConn)

	result, err := o.RunTurn(context.Background(), TurnInput{Content: "latest go release", Model: ModelAuto})
	require.NoError(t, err)

	assert.Equal(t, "summary of results", result.Content)
	assert.Equal(t, "gpt-4o", result.ModelUsed)
	require.NotNil(t, result.Search)
	assert.Len(t, result.Search.Results, 3)
	assert.Nil(t, result.Multi)

	// Only the summary provider is called; the fan-out never runs.
	assert.Equal(t, int32(1), openaiConn.calls.Load())
	assert.Equal(t, int32(0), anthropicConn.calls.Load())
	assert.Equal(t, int32(0), geminiConn.calls.Load())
	assert.Equal(t, 0, synth.calls)

	// The summary prompt carries the search results.
	require.Len(t, openaiConn.prompts, 1)
	assert.Contains(t, openaiConn.prompts[0], "https://one.example.com")
}

func TestRunTurnIncludeSearchForcesSearch(t *testing.T) {
	openaiConn := &fakeConnector{name: "openai", model: "gpt-4o", content: "summary"}
	search := &fakeSearch{resp: threeResults()}

	o := newTestOrchestrator(search, &fakeSynthesizer{}, openaiConn)

	// No trigger words, but the request opts in.
	result, err := o.RunTurn(context.Background(), TurnInput{Content: "Summarize the plot of Hamlet", IncludeSearch: true})
	require.NoError(t, err)
	assert.Equal(t, 1, search.calls)
	assert.NotNil(t, result.Search)
}

func TestRunTurnSearchFailureDegradesToPlainCompletion(t *testing.T) {
	openaiConn := &fakeConnector{name: "openai", model: "gpt-4o", content: "plain answer"}
	search := &fakeSearch{err: domain.ErrNoResultsAvailable}

	o := newTestOrchestrator(search, &fakeSynthesizer{}, openaiConn)

	result, err := o.RunTurn(context.Background(), TurnInput{Content: "latest go release", Model: "openai"})
	require.NoError(t, err)

	assert.Equal(t, "plain answer", result.Content)
	assert.Nil(t, result.Search)
	require.Len(t, openaiConn.prompts, 1)
	assert.NotContains(t, openaiConn.prompts[0], "Recent web search results")
}

func TestRunTurnSummaryFailureFallsBackToAugmentedDispatch(t *testing.T) {
	// The configured summary provider fails, so the turn falls through to
	// the fan-out with the search results folded into the prompt.
	openaiConn := &fakeConnector{name: "openai", model: "gpt-4o", err: errors.New("quota")}
	anthropicConn := &fakeConnector{name: "anthropic", model: "claude-3-sonnet-20240229", content: "augmented answer"}
	search := &fakeSearch{resp: threeResults()}
	synth := &fakeSynthesizer{err: domain.ErrSynthesisUnavailable}

	o := newTestOrchestrator(search, synth, openaiConn, anthropicConn)

	result, err := o.RunTurn(context.Background(), TurnInput{Content: "latest go release", Model: ModelAuto})
	require.NoError(t, err)

	assert.Equal(t, "augmented answer", result.Content)
	assert.NotNil(t, result.Search)
	require.NotNil(t, result.Multi)
	assert.Len(t, result.Multi.Responses, 2)

	require.NotEmpty(t, anthropicConn.prompts)
	assert.Contains(t, anthropicConn.prompts[0], "Recent web search results")
}

func TestRunTurnCombinedFansOutAndSynthesizes(t *testing.T) {
	openaiConn := &fakeConnector{name: "openai", model: "gpt-4o", content: "a"}
	anthropicConn := &fakeConnector{name: "anthropic", model: "claude-3-sonnet-20240229", content: "b"}
	geminiConn := &fakeConnector{name: "gemini", model: "gemini-1.5-pro", content: "c"}
	synth := &fakeSynthesizer{combined: "the best of all three", model: "gpt-4o"}

	o := newTestOrchestrator(&fakeSearch{}, synth, openaiConn, anthropicConn, geminiConn)

	result, err := o.RunTurn(context.Background(), TurnInput{Content: "Explain interfaces", Model: ModelCombined})
	require.NoError(t, err)

	assert.Equal(t, "the best of all three", result.Content)
	assert.Equal(t, "gpt-4o", result.ModelUsed)
	require.NotNil(t, result.Multi)
	assert.Len(t, result.Multi.Responses, 3)
	assert.Equal(t, "the best of all three", result.Multi.Combined)
	assert.Equal(t, 1, synth.calls)

	for _, c := range []*fakeConnector{openaiConn, anthropicConn, geminiConn} {
		assert.Equal(t, int32(1), c.calls.Load())
	}
}

func TestRunTurnDefaultsToCombined(t *testing.T) {
	openaiConn := &fakeConnector{name: "openai", model: "gpt-4o", content: "a"}
	anthropicConn := &fakeConnector{name: "anthropic", model: "claude-3-sonnet-20240229", content: "b"}
	synth := &fakeSynthesizer{combined: "merged", model: "gpt-4o"}

	o := newTestOrchestrator(&fakeSearch{}, synth, openaiConn, anthropicConn)

	result, err := o.RunTurn(context.Background(), TurnInput{Content: "Explain interfaces"})
	require.NoError(t, err)
	assert.Equal(t, "merged", result.Content)
	assert.Equal(t, 1, synth.calls)
}

func TestRunTurnSynthesisFailureUsesFirstUsable(t *testing.T) {
	openaiConn := &fakeConnector{name: "openai", model: "gpt-4o", err: errors.New("down")}
	anthropicConn := &fakeConnector{name: "anthropic", model: "claude-3-sonnet-20240229", content: "usable"}
	synth := &fakeSynthesizer{err: domain.ErrSynthesisUnavailable, model: "gpt-4o"}

	o := newTestOrchestrator(&fakeSearch{}, synth, openaiConn, anthropicConn)

	result, err := o.RunTurn(context.Background(), TurnInput{Content: "Explain interfaces", Model: ModelAuto})
	require.NoError(t, err)

	assert.Equal(t, "usable", result.Content)
	assert.Equal(t, "claude-3-sonnet-20240229", result.ModelUsed)
	require.NotNil(t, result.Multi)
	assert.Empty(t, result.Multi.Combined)
}

func TestRunTurnTotalFailure(t *testing.T) {
	o := newTestOrchestrator(&fakeSearch{}, &fakeSynthesizer{},
		&fakeConnector{name: "openai", model: "gpt-4o", err: errors.New("down")},
		&fakeConnector{name: "anthropic", model: "claude-3-sonnet-20240229", err: errors.New("down")},
	)

	result, err := o.RunTurn(context.Background(), TurnInput{Content: "Explain interfaces", Model: ModelAuto})
	require.NoError(t, err, "total provider failure is a degraded answer, not a request error")

	assert.Equal(t, ModelError, result.ModelUsed)
	assert.Equal(t, totalFailureMessage, result.Content)
	require.NotNil(t, result.Multi)
	assert.True(t, result.Multi.AllFailed())
}

func TestRunTurnSingleProvider(t *testing.T) {
	openaiConn := &fakeConnector{name: "openai", model: "gpt-4o", content: "solo"}
	anthropicConn := &fakeConnector{name: "anthropic", model: "claude-3-sonnet-20240229", content: "unused"}
	synth := &fakeSynthesizer{combined: "unused", model: "gpt-4o"}

	o := newTestOrchestrator(&fakeSearch{}, synth, openaiConn, anthropicConn)

	result, err := o.RunTurn(context.Background(), TurnInput{Content: "Explain interfaces", Model: "openai"})
	require.NoError(t, err)

	assert.Equal(t, "solo", result.Content)
	assert.Equal(t, "gpt-4o", result.ModelUsed)
	assert.Nil(t, result.Multi)
	assert.Equal(t, int32(0), anthropicConn.calls.Load())
	assert.Equal(t, 0, synth.calls)
}

func TestRunTurnSingleProviderFailure(t *testing.T) {
	openaiConn := &fakeConnector{name: "openai", model: "gpt-4o", err: errors.New("down")}

	o := newTestOrchestrator(&fakeSearch{}, &fakeSynthesizer{}, openaiConn)

	result, err := o.RunTurn(context.Background(), TurnInput{Content: "Explain interfaces", Model: "openai"})
	require.NoError(t, err)

	assert.Equal(t, ModelError, result.ModelUsed)
	assert.Equal(t, totalFailureMessage, result.Content)
	require.NotNil(t, result.Multi)
	require.Len(t, result.Multi.Responses, 1)
	assert.True(t, result.Multi.Responses[0].IsError())
}

func TestRunTurnUnknownProvider(t *testing.T) {
	o := newTestOrchestrator(&fakeSearch{}, &fakeSynthesizer{}, &fakeConnector{name: "openai", model: "gpt-4o"})

	_, err := o.RunTurn(context.Background(), TurnInput{Content: "Explain interfaces", Model: "mistral"})
	assert.ErrorIs(t, err, domain.ErrNoProviderConfigured)
}

func TestSummaryConnectorSelection(t *testing.T) {
	openaiConn := &fakeConnector{name: "openai", model: "gpt-4o"}
	anthropicConn := &fakeConnector{name: "anthropic", model: "claude-3-sonnet-20240229"}

	o := newTestOrchestrator(&fakeSearch{}, &fakeSynthesizer{}, openaiConn, anthropicConn)

	// A named provider writes its own summary.
	assert.Equal(t, "anthropic", o.summaryConnector("anthropic").Name())
	// Auto and combined fall back to the configured summary provider.
	assert.Equal(t, "openai", o.summaryConnector(ModelAuto).Name())
	assert.Equal(t, "openai", o.summaryConnector(ModelCombined).Name())
	// An unknown name falls back too.
	assert.Equal(t, "openai", o.summaryConnector("mistral").Name())
}

func TestProvidersReport(t *testing.T) {
	o := newTestOrchestrator(
		&fakeSearch{engines: []string{"google", "duckduckgo"}},
		&fakeSynthesizer{model: "gpt-4o"},
		&fakeConnector{name: "openai", model: "gpt-4o"},
		&fakeConnector{name: "anthropic", model: "claude-3-sonnet-20240229"},
	)

	report := o.Providers()
	assert.Equal(t, []string{"openai", "anthropic"}, report.CompletionProviders)
	assert.Equal(t, []string{"google", "duckduckgo"}, report.SearchEngines)
	assert.Equal(t, "gpt-4o", report.SynthesisModel)
}
