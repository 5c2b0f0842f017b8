package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultProviderConfigFile = "config/providers.yml"

// ProviderEntry describes an AI provider declared in the yaml catalog.
type ProviderEntry struct {
	Type    string
	APIKey  string
	BaseURL string
	Model   string
}

// ProviderCatalog holds the providers parsed from the catalog file.
type ProviderCatalog struct {
	entries []ProviderEntry
}

// Entries returns a copy of the catalog's provider entries.
func (c *ProviderCatalog) Entries() []ProviderEntry {
	if c == nil || len(c.entries) == 0 {
		return nil
	}
	out := make([]ProviderEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// LoadProviderCatalog parses the yaml file at the provided path. API keys,
// base URLs, and models may reference environment variables with ${VAR} or
// ${VAR:-default} syntax.
func LoadProviderCatalog(path string) (*ProviderCatalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("provider catalog path is empty")
	}

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read provider catalog %q: %w", cleanPath, err)
	}

	var doc providerCatalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse provider catalog %q: %w", cleanPath, err)
	}
	if len(doc.Providers) == 0 {
		return nil, fmt.Errorf("provider catalog %q has no providers defined", cleanPath)
	}

	catalog := &ProviderCatalog{}
	for idx, entry := range doc.Providers {
		enabled, err := parseEnabled(entry.EnableRaw)
		if err != nil {
			return nil, fmt.Errorf("providers[%d]: %w", idx, err)
		}
		if !enabled {
			continue
		}
		normalized, err := normalizeProviderEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("providers[%d]: %w", idx, err)
		}
		catalog.entries = append(catalog.entries, normalized)
	}

	if len(catalog.entries) == 0 {
		return nil, fmt.Errorf("provider catalog %q has no enabled providers", cleanPath)
	}
	return catalog, nil
}

type providerCatalogDocument struct {
	Providers []providerCatalogEntry `yaml:"providers"`
}

type providerCatalogEntry struct {
	EnableRaw string `yaml:"enable"`
	Type      string `yaml:"type"`
	APIKey    string `yaml:"api_key"`
	Key       string `yaml:"key"`
	BaseURL   string `yaml:"base_url"`
	URL       string `yaml:"url"`
	Model     string `yaml:"model"`
}

func normalizeProviderEntry(entry providerCatalogEntry) (ProviderEntry, error) {
	providerType := strings.ToLower(strings.TrimSpace(entry.Type))
	switch providerType {
	case "openai", "anthropic":
	case "":
		return ProviderEntry{}, errors.New("provider type is required")
	default:
		return ProviderEntry{}, fmt.Errorf("unknown provider type %q", providerType)
	}

	apiKey := strings.TrimSpace(expandWithDefault(firstNonEmpty(entry.APIKey, entry.Key)))
	if apiKey == "" {
		return ProviderEntry{}, errors.New("provider api_key is required")
	}

	return ProviderEntry{
		Type:    providerType,
		APIKey:  apiKey,
		BaseURL: strings.TrimSpace(expandWithDefault(firstNonEmpty(entry.BaseURL, entry.URL))),
		Model:   strings.TrimSpace(expandWithDefault(entry.Model)),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseEnabled(raw string) (bool, error) {
	value := strings.TrimSpace(expandWithDefault(raw))
	if value == "" {
		return true, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("enable: %w", err)
	}
	return parsed, nil
}

// expandWithDefault expands ${VAR} and ${VAR:-default} syntax using os envs.
func expandWithDefault(raw string) string {
	if !strings.Contains(raw, "${") {
		return os.ExpandEnv(raw)
	}
	start := strings.Index(raw, "${")
	end := strings.Index(raw[start:], "}")
	if end == -1 {
		return os.ExpandEnv(raw)
	}
	end = start + end
	expr := raw[start+2 : end]
	varName, defaultVal := expr, ""
	if strings.Contains(expr, ":-") {
		parts := strings.SplitN(expr, ":-", 2)
		varName = parts[0]
		defaultVal = parts[1]
	}
	val := os.Getenv(varName)
	if val == "" {
		val = defaultVal
	}
	return os.ExpandEnv(raw[:start] + val + raw[end+1:])
}
