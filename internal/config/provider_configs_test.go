package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadProviderCatalog(t *testing.T) {
	t.Setenv("TEST_ANTHROPIC_KEY", "sk-ant-test123")

	path := writeCatalog(t, `
providers:
  - type: openai
    api_key: sk-test456
    base_url: https://proxy.example.com/v1
    model: gpt-4o-mini
  - type: anthropic
    api_key: ${TEST_ANTHROPIC_KEY}
  - enable: "false"
    type: openai
    api_key: sk-disabled
`)

	catalog, err := LoadProviderCatalog(path)
	require.NoError(t, err)

	entries := catalog.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, "openai", entries[0].Type)
	assert.Equal(t, "sk-test456", entries[0].APIKey)
	assert.Equal(t, "https://proxy.example.com/v1", entries[0].BaseURL)
	assert.Equal(t, "gpt-4o-mini", entries[0].Model)

	assert.Equal(t, "anthropic", entries[1].Type)
	assert.Equal(t, "sk-ant-test123", entries[1].APIKey)
	assert.Empty(t, entries[1].Model)
}

func TestLoadProviderCatalog_EnableDefaultSyntax(t *testing.T) {
	path := writeCatalog(t, `
providers:
  - enable: ${UNSET_TOGGLE:-true}
    type: anthropic
    api_key: sk-ant-test123
`)

	catalog, err := LoadProviderCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog.Entries(), 1)
}

func TestLoadProviderCatalog_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProviderCatalog(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
	})

	t.Run("unknown provider type", func(t *testing.T) {
		path := writeCatalog(t, `
providers:
  - type: bedrock
    api_key: sk-test
`)
		_, err := LoadProviderCatalog(path)
		assert.ErrorContains(t, err, "unknown provider type")
	})

	t.Run("missing api key", func(t *testing.T) {
		path := writeCatalog(t, `
providers:
  - type: openai
`)
		_, err := LoadProviderCatalog(path)
		assert.ErrorContains(t, err, "api_key is required")
	})

	t.Run("no enabled providers", func(t *testing.T) {
		path := writeCatalog(t, `
providers:
  - enable: "false"
    type: openai
    api_key: sk-test
`)
		_, err := LoadProviderCatalog(path)
		assert.ErrorContains(t, err, "no enabled providers")
	})
}
