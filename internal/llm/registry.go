package llm

import (
	"fmt"

	"github.com/omnichat-ai/omnichat/internal/config"
	"github.com/omnichat-ai/omnichat/internal/domain"
)

// Registry maps provider identifiers to completion connectors. Dispatch is a
// lookup by key rather than a conditional per provider, so adding a provider
// is a registry entry, not a new branch. The registry is built once at
// startup and read-only afterwards.
type Registry struct {
	connectors map[string]Connector
	order      []string
}

// NewRegistry builds a registry containing one connector per provider whose
// credentials are present in cfg. Registration order fixes the fan-out
// request order.
func NewRegistry(cfg config.ProvidersConfig) *Registry {
	r := &Registry{connectors: make(map[string]Connector)}

	if cfg.OpenAI.APIKey != "" {
		r.add(NewOpenAIConnector(cfg.OpenAI))
	}
	if cfg.Anthropic.APIKey != "" {
		r.add(NewAnthropicConnector(cfg.Anthropic))
	}
	if cfg.Gemini.APIKey != "" {
		r.add(NewGeminiConnector(cfg.Gemini))
	}

	return r
}

// NewRegistryWith builds a registry from pre-built connectors, preserving
// the given order.
func NewRegistryWith(connectors ...Connector) *Registry {
	r := &Registry{connectors: make(map[string]Connector)}
	for _, c := range connectors {
		r.add(c)
	}
	return r
}

func (r *Registry) add(c Connector) {
	if _, exists := r.connectors[c.Name()]; exists {
		return
	}
	r.connectors[c.Name()] = c
	r.order = append(r.order, c.Name())
}

// Get returns the connector registered under name.
func (r *Registry) Get(name string) (Connector, error) {
	c, ok := r.connectors[name]
	if !ok {
		return nil, fmt.Errorf("%w: completion provider %q", domain.ErrNoProviderConfigured, name)
	}
	return c, nil
}

// All returns every registered connector in registration order.
func (r *Registry) All() []Connector {
	connectors := make([]Connector, 0, len(r.order))
	for _, name := range r.order {
		connectors = append(connectors, r.connectors[name])
	}
	return connectors
}

// Names returns registered provider names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered connectors.
func (r *Registry) Len() int {
	return len(r.connectors)
}
