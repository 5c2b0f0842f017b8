// Package generation orchestrates character replies produced by external
// language model providers.
package generation

import (
	"context"
	"sort"
	"sync"

	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

// Provider names as they appear in configuration and the API.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// CompletionRequest is a single-shot completion call: one system prompt and
// one user prompt.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Provider produces raw completion text from a language model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Registry holds the configured providers and the currently selected one.
// Selection is explicit: callers that care which backend fulfills a request
// read or change it here, never through a hidden global.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry builds a registry from the configured providers with the given
// initial selection. When the selection names a provider that is not
// configured (missing API key), the registry starts with no active provider
// and generation fails until a valid selection is made.
func NewRegistry(active string, providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	if _, ok := r.providers[active]; ok {
		r.active = active
	}
	return r
}

// Active returns the currently selected provider, or nil when none is
// configured.
func (r *Registry) Active() Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[r.active]
}

// ActiveName returns the name of the currently selected provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Has reports whether a provider with the given name is configured.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}

// Names returns the configured provider names in stable order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select switches the active provider. Selecting an unconfigured provider
// is a validation error; the previous selection stays in place.
func (r *Registry) Select(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "unknown or unconfigured AI provider: "+name, nil, "b8c9d0e1-f2a3-4b4c-5d6e-7f8a9b0c1d2e")
	}
	r.active = name
	return nil
}
