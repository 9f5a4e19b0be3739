package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoProviderConfigured indicates zero eligible connectors of a kind exist
	ErrNoProviderConfigured = errors.New("no provider configured")
	// ErrNoResultsAvailable indicates every configured search connector failed
	ErrNoResultsAvailable = errors.New("no search results available")
	// ErrSynthesisUnavailable indicates the synthesis completion call failed
	ErrSynthesisUnavailable = errors.New("synthesis unavailable")
)

// UpstreamError reports a failure of a single external connector, search or
// completion. It is always recoverable by trying the next connector and is
// never surfaced to the end user directly.
type UpstreamError struct {
	Provider string
	Message  string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: upstream call failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
