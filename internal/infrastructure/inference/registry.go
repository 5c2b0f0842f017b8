package inference

import (
	"github.com/chatlab/chatlab-server/internal/config"
	"github.com/chatlab/chatlab-server/internal/domain/generation"
	"github.com/chatlab/chatlab-server/internal/infrastructure/logger"
)

// NewRegistryFromConfig wires up every provider with a usable API key and
// selects the configured default. A yaml provider catalog, when loaded,
// takes precedence over the flat env keys. Placeholder keys from .env
// templates are treated as absent.
func NewRegistryFromConfig(cfg *config.Config) *generation.Registry {
	log := logger.GetLogger()

	providers := providersFromCatalog(cfg)
	if len(providers) == 0 {
		if usableKey(cfg.OpenAIAPIKey) {
			providers = append(providers, NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel))
		}
		if usableKey(cfg.AnthropicAPIKey) {
			providers = append(providers, NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel))
		}
	}

	registry := generation.NewRegistry(cfg.AIProvider, providers...)
	if registry.Active() == nil {
		log.Warn().
			Str("provider", cfg.AIProvider).
			Msg("configured AI provider has no API key; generation requests will fail until one is selected")
	} else {
		log.Info().
			Str("provider", registry.ActiveName()).
			Strs("configured", registry.Names()).
			Msg("AI provider registry initialized")
	}
	return registry
}

// providersFromCatalog builds providers from the yaml catalog entries,
// falling back to the env model and base URL when an entry omits them.
func providersFromCatalog(cfg *config.Config) []generation.Provider {
	var providers []generation.Provider
	for _, entry := range cfg.ProviderCatalog.Entries() {
		if !usableKey(entry.APIKey) {
			continue
		}
		switch entry.Type {
		case "openai":
			model := entry.Model
			if model == "" {
				model = cfg.OpenAIModel
			}
			baseURL := entry.BaseURL
			if baseURL == "" {
				baseURL = cfg.OpenAIBaseURL
			}
			providers = append(providers, NewOpenAIProvider(entry.APIKey, baseURL, model))
		case "anthropic":
			model := entry.Model
			if model == "" {
				model = cfg.AnthropicModel
			}
			providers = append(providers, NewAnthropicProvider(entry.APIKey, model))
		}
	}
	return providers
}

// usableKey filters out empty values and well-known development placeholders.
func usableKey(key string) bool {
	switch key {
	case "", "sk-fake-key-for-development", "sk-ant-REDACTED", "your_openai_key", "your_anthropic_key":
		return false
	}
	return true
}
