package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/omnichat-ai/omnichat/internal/domain"
	"github.com/omnichat-ai/omnichat/internal/llm"
	"github.com/omnichat-ai/omnichat/internal/metrics"
	"go.uber.org/zap"
)

// Reserved model selector values. Any other value is looked up in the
// provider registry.
const (
	ModelAuto     = "auto"
	ModelCombined = "combined"
	ModelError    = "error"
)

// totalFailureMessage is the assistant content recorded when every requested
// provider fails. The turn still completes with a persisted message.
const totalFailureMessage = "All AI providers are currently unavailable. Please try again in a moment."

// Search trigger vocabulary. Deliberately low precision; an unnecessary
// search only costs an extra upstream call. Year tokens are appended at
// construction.
var triggerWords = []string{
	"search", "latest", "recent", "current", "news", "update", "trend",
}

// SearchProvider is the search layer the orchestrator consults, normally
// *search.Aggregator.
type SearchProvider interface {
	Aggregate(ctx context.Context, query string) (*domain.SearchResponse, error)
	Engines() []string
}

// ResponseSynthesizer combines multiple model answers into one, normally
// *llm.Synthesizer.
type ResponseSynthesizer interface {
	Synthesize(ctx context.Context, responses []domain.CompletionResult) (string, error)
	Model() string
}

// TurnInput is one inbound user message plus its dispatch options.
type TurnInput struct {
	Content       string
	Model         string
	IncludeSearch bool
}

// TurnResult is the orchestrator's unified output for one turn.
type TurnResult struct {
	Content   string
	ModelUsed string
	Search    *domain.SearchResponse
	Multi     *domain.MultiCompletionResult
}

// Orchestrator runs the per-turn policy: decide whether a message needs
// search augmentation, run the search fallback chain, and dispatch to one or
// all completion providers. Each turn is independent; the orchestrator holds
// no per-turn state.
type Orchestrator struct {
	registry        *llm.Registry
	search          SearchProvider
	dispatcher      *llm.Dispatcher
	synthesizer     ResponseSynthesizer
	logger          *zap.Logger
	trigger         *regexp.Regexp
	summaryProvider string
}

// NewOrchestrator creates an orchestrator. summaryProvider names the
// connector used for search summaries when the request does not pick a
// single provider itself.
func NewOrchestrator(
	registry *llm.Registry,
	searchProvider SearchProvider,
	dispatcher *llm.Dispatcher,
	synthesizer ResponseSynthesizer,
	summaryProvider string,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry:        registry,
		search:          searchProvider,
		dispatcher:      dispatcher,
		synthesizer:     synthesizer,
		logger:          logger,
		trigger:         buildTrigger(time.Now().Year()),
		summaryProvider: summaryProvider,
	}
}

func buildTrigger(year int) *regexp.Regexp {
	words := make([]string, 0, len(triggerWords)+3)
	words = append(words, triggerWords...)
	for _, y := range []int{year - 1, year, year + 1} {
		words = append(words, strconv.Itoa(y))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`)
}

// NeedsSearch reports whether the message content matches the search trigger
// vocabulary.
func (o *Orchestrator) NeedsSearch(content string) bool {
	return o.trigger.MatchString(content)
}

// RunTurn executes one chat turn to completion.
//
// Failures of individual connectors degrade gracefully: search failure drops
// the augmentation, synthesis failure falls back to the first usable
// response, and total completion failure yields an error-text result with
// ModelUsed == "error". Only a missing-provider configuration error is
// returned to the caller.
func (o *Orchestrator) RunTurn(ctx context.Context, in TurnInput) (result *TurnResult, err error) {
	start := time.Now()
	defer func() {
		metrics.TurnDuration.WithLabelValues(turnPath(result, err)).Observe(time.Since(start).Seconds())
	}()

	if o.registry.Len() == 0 {
		return nil, fmt.Errorf("%w: no completion providers", domain.ErrNoProviderConfigured)
	}

	// Search failure must never abort the turn.
	var searchResp *domain.SearchResponse
	if in.IncludeSearch || o.NeedsSearch(in.Content) {
		resp, searchErr := o.search.Aggregate(ctx, in.Content)
		if searchErr != nil {
			o.logger.Warn("search unavailable, continuing without augmentation",
				zap.Error(searchErr),
			)
		} else {
			searchResp = resp
		}
	}

	// A successful search supersedes the completion dispatch: the summary of
	// the results becomes the assistant's answer.
	if searchResp != nil {
		conn := o.summaryConnector(in.Model)
		summary, sumErr := o.dispatcher.CompleteOne(ctx, conn, llm.BuildSummaryPrompt(in.Content, searchResp.Results))
		if sumErr == nil {
			return &TurnResult{
				Content:   summary.Content,
				ModelUsed: summary.Model,
				Search:    searchResp,
			}, nil
		}
		o.logger.Warn("search summary failed, falling back to completion dispatch",
			zap.String("provider", conn.Name()),
			zap.Error(sumErr),
		)
	}

	prompt := in.Content
	if searchResp != nil {
		prompt = augmentPrompt(in.Content, searchResp)
	}

	switch in.Model {
	case "", ModelAuto, ModelCombined:
		return o.completeCombined(ctx, prompt, searchResp)
	default:
		return o.completeSingle(ctx, in.Model, prompt, searchResp)
	}
}

// completeSingle dispatches to one named provider.
func (o *Orchestrator) completeSingle(ctx context.Context, name, prompt string, searchResp *domain.SearchResponse) (*TurnResult, error) {
	conn, err := o.registry.Get(name)
	if err != nil {
		return nil, err
	}

	result, err := o.dispatcher.CompleteOne(ctx, conn, prompt)
	if err != nil {
		return &TurnResult{
			Content:   totalFailureMessage,
			ModelUsed: ModelError,
			Search:    searchResp,
			Multi: &domain.MultiCompletionResult{
				Responses: []domain.CompletionResult{domain.ErrorCompletion(conn.Name(), err)},
			},
		}, nil
	}

	return &TurnResult{
		Content:   result.Content,
		ModelUsed: result.Model,
		Search:    searchResp,
	}, nil
}

// completeCombined fans out to every configured provider and synthesizes a
// combined answer.
func (o *Orchestrator) completeCombined(ctx context.Context, prompt string, searchResp *domain.SearchResponse) (*TurnResult, error) {
	multi := o.dispatcher.CompleteAll(ctx, o.registry.All(), prompt)
	if multi.AllFailed() {
		return &TurnResult{
			Content:   totalFailureMessage,
			ModelUsed: ModelError,
			Search:    searchResp,
			Multi:     multi,
		}, nil
	}

	combined, err := o.synthesizer.Synthesize(ctx, multi.Responses)
	if err != nil {
		// Never block the turn on synthesis.
		first := multi.FirstUsable()
		o.logger.Warn("synthesis unavailable, using first provider response",
			zap.String("provider", first.Model),
			zap.Error(err),
		)
		return &TurnResult{
			Content:   first.Content,
			ModelUsed: first.Model,
			Search:    searchResp,
			Multi:     multi,
		}, nil
	}

	multi.Combined = combined
	return &TurnResult{
		Content:   combined,
		ModelUsed: o.synthesizer.Model(),
		Search:    searchResp,
		Multi:     multi,
	}, nil
}

// summaryConnector picks the connector that writes search summaries: the
// requested provider when the request names one, otherwise the configured
// summary provider, otherwise the first registered connector.
func (o *Orchestrator) summaryConnector(requestedModel string) llm.Connector {
	switch requestedModel {
	case "", ModelAuto, ModelCombined:
	default:
		if conn, err := o.registry.Get(requestedModel); err == nil {
			return conn
		}
	}
	if conn, err := o.registry.Get(o.summaryProvider); err == nil {
		return conn
	}
	return o.registry.All()[0]
}

// Providers reports the configured completion providers and search engines.
type Providers struct {
	CompletionProviders []string `json:"completionProviders"`
	SearchEngines       []string `json:"searchEngines"`
	SynthesisModel      string   `json:"synthesisModel"`
}

// Providers returns the availability report served to the UI model picker.
func (o *Orchestrator) Providers() Providers {
	return Providers{
		CompletionProviders: o.registry.Names(),
		SearchEngines:       o.search.Engines(),
		SynthesisModel:      o.synthesizer.Model(),
	}
}

func augmentPrompt(content string, resp *domain.SearchResponse) string {
	var b strings.Builder
	b.WriteString(content)
	b.WriteString("\n\nRecent web search results:\n")
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "[%d] %s - %s (%s)\n", i+1, r.Title, r.Snippet, r.URL)
	}
	b.WriteString("\nUse these results where relevant and cite sources by domain name.")
	return b.String()
}

// turnPath labels the turn-duration metric by how the turn was answered.
func turnPath(result *TurnResult, err error) string {
	switch {
	case err != nil:
		return "config_error"
	case result.ModelUsed == ModelError:
		return "failed"
	case result.Search != nil && result.Multi == nil:
		return "search_summary"
	case result.Multi != nil:
		return "combined"
	default:
		return "single"
	}
}
