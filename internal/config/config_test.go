package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://google.serper.dev", cfg.Serper.BaseURL)
	assert.Equal(t, "https://api.apollo.io/v1", cfg.Apollo.BaseURL)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.HaikuModel)
	assert.Equal(t, "https://login.salesforce.com", cfg.Salesforce.LoginURL)
	assert.Equal(t, "rule", cfg.Pipeline.Strategy)
	assert.Equal(t, "domain_then_company", cfg.Pipeline.MatchPolicy)
	assert.True(t, cfg.Pipeline.ResolveDomains)
	assert.False(t, cfg.Pipeline.UseBulkMatch)
	assert.False(t, cfg.Pipeline.DraftEmails)
	assert.Equal(t, 0, cfg.Pipeline.SearchRetries)
	assert.Equal(t, 5, cfg.Pipeline.MaxWorkers)
	assert.Equal(t, 10, cfg.Pipeline.ResultCount)
	assert.Equal(t, 10, cfg.Pipeline.BulkBatchSize)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/prospect
log:
  level: debug
  format: console
pipeline:
  strategy: model
  match_policy: domain_only
  use_bulk_match: true
  result_count: 25
serper:
  key: test-serper-key
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/prospect", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "model", cfg.Pipeline.Strategy)
	assert.Equal(t, "domain_only", cfg.Pipeline.MatchPolicy)
	assert.True(t, cfg.Pipeline.UseBulkMatch)
	assert.Equal(t, 25, cfg.Pipeline.ResultCount)
	assert.Equal(t, "test-serper-key", cfg.Serper.Key)

	// Unset keys keep defaults.
	assert.Equal(t, "https://api.apollo.io/v1", cfg.Apollo.BaseURL)
	assert.Equal(t, 5, cfg.Pipeline.MaxWorkers)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}
