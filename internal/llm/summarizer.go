package llm

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/omnichat-ai/omnichat/internal/domain"
)

// queryKind selects the register of the summary prompt.
type queryKind int

const (
	queryGeneral queryKind = iota
	queryList
	queryHowTo
	queryDefinition
	queryComparison
	queryNews
	queryTechnical
)

// titleSimilarityThreshold is the bigram similarity above which two result
// titles count as duplicates.
const titleSimilarityThreshold = 0.85

// BuildSummaryPrompt assembles the meta-prompt for a search summary. Results
// with near-duplicate titles are dropped, every remaining result is labeled
// with an index and source URL, and the instruction header varies with the
// kind of question being asked.
func BuildSummaryPrompt(query string, results []domain.SearchResult) string {
	deduped := dedupeResults(results)

	var b strings.Builder
	b.WriteString(instructionFor(classifyQuery(query)))
	fmt.Fprintf(&b, "\n\nThe question is: %q\n\nRecent web search results:\n", query)

	for i, r := range deduped {
		fmt.Fprintf(&b, "\n[%d] %s\n%s\nSource: %s\n", i+1, r.Title, r.Snippet, r.URL)
	}

	b.WriteString("\nCite sources by their domain name in parentheses, for example (example.com), right after the relevant information. Do not cite by number. ")
	b.WriteString("If the question contains multiple questions, answer each one separately. ")
	b.WriteString("Answer the question directly using only the results above.")
	return b.String()
}

func instructionFor(kind queryKind) string {
	switch kind {
	case queryList:
		return "You are a research assistant. Produce a well-structured list that gives exactly what was asked for, with one line of context per item."
	case queryHowTo:
		return "You are a practical instructor. Produce a clear step-by-step guide with numbered steps, including tips and pitfalls where the sources mention them."
	case queryDefinition:
		return "You are an educator. Explain the concept clearly and accurately, with context and examples, in simple language."
	case queryComparison:
		return "You are an analyst. Produce a balanced comparison covering the strengths and weaknesses of each option, ending with a recommendation if the sources support one."
	case queryNews:
		return "You are a news analyst. Report the most recent and relevant developments, with context and multiple perspectives where available."
	case queryTechnical:
		return "You are a technical expert. Give implementation-level guidance, covering architecture, trade-offs, and best practices mentioned in the sources."
	default:
		return "You are a helpful assistant. Give a comprehensive, well-organized answer to the question."
	}
}

var queryKindMarkers = []struct {
	kind    queryKind
	markers []string
}{
	{queryHowTo, []string{"how to", "how do", "steps", "guide", "tutorial", "process"}},
	{queryComparison, []string{" vs ", "versus", "compare", "difference", "better", "which"}},
	{queryList, []string{"top ", "list", "best", "worst", "ranking", "ranked"}},
	{queryDefinition, []string{"what is", "define", "definition", "meaning", "explain"}},
	{queryNews, []string{"latest", "recent", "news", "update", "announcement"}},
	{queryTechnical, []string{"api", "code", "programming", "technical", "implementation", "architecture"}},
}

func classifyQuery(query string) queryKind {
	q := strings.ToLower(query)
	for _, entry := range queryKindMarkers {
		for _, m := range entry.markers {
			if strings.Contains(q, m) {
				return entry.kind
			}
		}
	}
	return queryGeneral
}

// dedupeResults drops results whose titles are near-identical to an earlier
// one, preserving order.
func dedupeResults(results []domain.SearchResult) []domain.SearchResult {
	deduped := make([]domain.SearchResult, 0, len(results))
	var seen []string

	for _, r := range results {
		key := strings.ToLower(strings.TrimSpace(r.Title))
		duplicate := false
		for _, s := range seen {
			if titleSimilarity(key, s) > titleSimilarityThreshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		seen = append(seen, key)
		deduped = append(deduped, r)
	}

	return deduped
}

// titleSimilarity computes the Sørensen–Dice coefficient over character
// bigrams, in [0,1].
func titleSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ba, bb := bigrams(a), bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	overlap := 0
	for g, n := range ba {
		if m, ok := bb[g]; ok {
			if m < n {
				overlap += m
			} else {
				overlap += n
			}
		}
	}

	total := 0
	for _, n := range ba {
		total += n
	}
	for _, n := range bb {
		total += n
	}
	return 2 * float64(overlap) / float64(total)
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	grams := make(map[string]int)
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}

// DisplayDomain extracts the bare host of a result URL, used by the UI for
// domain-name citations when the engine supplies no display URL.
func DisplayDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
