package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/agent-miner/internal/aggregate"
	"github.com/sells-group/agent-miner/internal/config"
	"github.com/sells-group/agent-miner/internal/extract"
	"github.com/sells-group/agent-miner/internal/lexicon"
	"github.com/sells-group/agent-miner/internal/store"
)

func testAggregator() *aggregate.Aggregator {
	c := extract.NewClassifier(lexicon.Default(), extract.Options{NEREnabled: false})
	return aggregate.New(c, aggregate.Options{})
}

func testStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return st
}

// withConfig installs c as the global config for the duration of the test.
func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func validTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Extract:   config.ExtractConfig{NEREnabled: false, NERMaxChars: 2000},
		Cluster:   config.ClusterConfig{SimilarityThreshold: 85},
		Aggregate: config.AggregateConfig{MaxTestimonials: 5},
		Batch:     config.BatchConfig{MaxConcurrentAgencies: 2},
		Store:     config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "cmd.db")},
		Export:    config.ExportConfig{TopAgents: 10},
		Server:    config.ServerConfig{Port: 8080},
		Log:       config.LogConfig{Level: "info", Format: "json"},
	}
}
