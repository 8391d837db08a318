package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Extract.NEREnabled)
	assert.Equal(t, 2000, cfg.Extract.NERMaxChars)
	assert.Empty(t, cfg.Extract.LexiconPath)
	assert.InDelta(t, 85.0, cfg.Cluster.SimilarityThreshold, 0.001)
	assert.Equal(t, 5, cfg.Aggregate.MaxTestimonials)
	assert.False(t, cfg.Ingest.Filter)
	assert.Equal(t, 30, cfg.Ingest.MinLength)
	assert.Equal(t, 200, cfg.Ingest.MaxReviews)
	assert.Equal(t, 12, cfg.Ingest.MaxMonthsOld)
	assert.Equal(t, 5, cfg.Ingest.StaleLimit)
	assert.Equal(t, 3, cfg.Batch.MaxConcurrentAgencies)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "agent-miner.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "agentes_inmobiliarios.json", cfg.Export.JSONPath)
	assert.Equal(t, 10, cfg.Export.TopAgents)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Zero(t, cfg.Server.AnalyzeRate)
	assert.Equal(t, 5, cfg.Server.AnalyzeBurst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
extract:
  ner_enabled: false
  ner_max_chars: 500
cluster:
  similarity_threshold: 90
log:
  level: debug
  format: console
batch:
  max_concurrent_agencies: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Extract.NEREnabled)
	assert.Equal(t, 500, cfg.Extract.NERMaxChars)
	assert.InDelta(t, 90.0, cfg.Cluster.SimilarityThreshold, 0.001)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrentAgencies)
	// Defaults still apply for unset values
	assert.Equal(t, 5, cfg.Aggregate.MaxTestimonials)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("AGENTS_STORE_DRIVER", "sqlite")
	t.Setenv("AGENTS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("AGENTS_AGGREGATE_MAX_TESTIMONIALS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Aggregate.MaxTestimonials)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Extract.NERMaxChars = 2000
	cfg.Cluster.SimilarityThreshold = 85
	cfg.Aggregate.MaxTestimonials = 5
	cfg.Batch.MaxConcurrentAgencies = 3
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "agent-miner.db"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateAnalyze_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("analyze"))
}

func TestValidateAnalyze_NoStore(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "none"
	cfg.Store.DatabaseURL = ""
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidateAnalyze_MissingURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.DatabaseURL = ""

	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mysql"

	err := cfg.Validate("reports")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be one of")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.MaxConcurrentAgencies = 0
	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrent_agencies must be between 1 and 50")

	cfg.Batch.MaxConcurrentAgencies = 51
	err = cfg.Validate("serve")
	assert.Error(t, err)

	cfg.Batch.MaxConcurrentAgencies = 50
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateThresholdBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Cluster.SimilarityThreshold = 101
	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "similarity_threshold")

	cfg.Cluster.SimilarityThreshold = 85
	cfg.Extract.NERMaxChars = -1
	err = cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ner_max_chars")
}
