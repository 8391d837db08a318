package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agent-miner/internal/aggregate"
	"github.com/sells-group/agent-miner/internal/config"
	"github.com/sells-group/agent-miner/internal/extract"
	"github.com/sells-group/agent-miner/internal/lexicon"
	"github.com/sells-group/agent-miner/internal/store"
)

// minerEnv holds the aggregator and the optional store shared by the
// analyze and serve commands.
type minerEnv struct {
	Store      store.Store // nil when persistence is disabled
	Aggregator *aggregate.Aggregator
}

// Close releases resources held by the environment.
func (e *minerEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv validates the config for mode, builds the aggregator and opens
// the store. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*minerEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	agg, err := newAggregator(cfg)
	if err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	return &minerEnv{Store: st, Aggregator: agg}, nil
}

// newAggregator loads the lexicon and, when NER is enabled, the recognizer
// model once, then wires the classifier into an aggregator.
func newAggregator(c *config.Config) (*aggregate.Aggregator, error) {
	lex, err := lexicon.Load(c.Extract.LexiconPath)
	if err != nil {
		return nil, eris.Wrap(err, "init lexicon")
	}
	names, excluded := lex.Size()
	zap.L().Debug("lexicon loaded",
		zap.Int("given_names", names),
		zap.Int("excluded", excluded),
		zap.Bool("ner", c.Extract.NEREnabled),
	)

	opts := extract.Options{
		NEREnabled:  c.Extract.NEREnabled,
		NERMaxChars: c.Extract.NERMaxChars,
	}
	if c.Extract.NEREnabled {
		rec, err := extract.NewProseRecognizer()
		if err != nil {
			return nil, eris.Wrap(err, "init recognizer")
		}
		opts.Recognizer = rec
	}

	classifier := extract.NewClassifier(lex, opts)
	return aggregate.New(classifier, aggregate.Options{
		Threshold:       c.Cluster.SimilarityThreshold,
		MaxTestimonials: c.Aggregate.MaxTestimonials,
	}), nil
}

// initStore opens and migrates the configured store. It returns nil when
// the driver is "none".
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	return st, nil
}
