package domain

// CompletionResult is the normalized output of one completion connector
// invocation. Never mutated after creation.
type CompletionResult struct {
	Content  string         `json:"content"`
	Model    string         `json:"model"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ErrorCompletion builds the placeholder result recorded for a provider that
// failed during a fan-out. Failures are encoded this way, never by omission,
// so a multi-provider result always has one entry per requested provider.
func ErrorCompletion(provider string, err error) CompletionResult {
	return CompletionResult{
		Content:  "Error: " + err.Error(),
		Model:    provider,
		Metadata: map[string]any{"error": true},
	}
}

// IsError reports whether the result is a failure placeholder.
func (r CompletionResult) IsError() bool {
	if r.Metadata == nil {
		return false
	}
	v, ok := r.Metadata["error"].(bool)
	return ok && v
}

// MultiCompletionResult holds the outcome of a multi-provider fan-out.
// Responses has exactly one entry per requested provider, in request order.
type MultiCompletionResult struct {
	Responses []CompletionResult `json:"responses"`
	Combined  string             `json:"combined,omitempty"`
}

// FirstUsable returns the first non-error response, or nil when every
// provider failed.
func (m *MultiCompletionResult) FirstUsable() *CompletionResult {
	for i := range m.Responses {
		if !m.Responses[i].IsError() {
			return &m.Responses[i]
		}
	}
	return nil
}

// AllFailed reports whether every requested provider failed.
func (m *MultiCompletionResult) AllFailed() bool {
	return m.FirstUsable() == nil
}
