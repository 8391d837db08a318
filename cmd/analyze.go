package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/agent-miner/internal/aggregate"
	"github.com/sells-group/agent-miner/internal/export"
	"github.com/sells-group/agent-miner/internal/ingest"
	"github.com/sells-group/agent-miner/internal/model"
	"github.com/sells-group/agent-miner/internal/store"
)

var analyzeFilter bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Mine agent mentions from review dumps",
	Long:  "Loads .json, .csv or .xlsx review dumps, builds one agent report per agency, writes the configured exports and persists the run.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		agencies, err := ingest.LoadAll(ctx, args)
		if err != nil {
			return eris.Wrap(err, "analyze: load dumps")
		}
		if analyzeFilter || cfg.Ingest.Filter {
			agencies = filterAgencies(agencies, filterOptions())
		}

		result, err := runAnalysis(ctx, env.Store, args, agencies, cfg.Batch.MaxConcurrentAgencies, cfg.Export.TopAgents, env.Aggregator.Aggregate)
		if err != nil {
			return err
		}

		if err := export.WriteFiles(export.Options{
			JSONPath: cfg.Export.JSONPath,
			HTMLPath: cfg.Export.HTMLPath,
			XLSXPath: cfg.Export.XLSXPath,
		}, result.Reports); err != nil {
			return eris.Wrap(err, "analyze: export")
		}

		formatTopAgents(os.Stdout, aggregate.TopAgents(result.Reports, cfg.Export.TopAgents))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeFilter, "filter", false, "apply the review-card filters before analysis (overrides ingest.filter)")
	rootCmd.AddCommand(analyzeCmd)
}

func filterOptions() ingest.FilterOptions {
	return ingest.FilterOptions{
		MinLength:    cfg.Ingest.MinLength,
		MaxReviews:   cfg.Ingest.MaxReviews,
		MaxMonthsOld: float64(cfg.Ingest.MaxMonthsOld),
		StaleLimit:   cfg.Ingest.StaleLimit,
	}
}

func filterAgencies(agencies []model.AgencyReviews, opts ingest.FilterOptions) []model.AgencyReviews {
	out := make([]model.AgencyReviews, len(agencies))
	for i, a := range agencies {
		out[i] = model.AgencyReviews{Agency: a.Agency, Reviews: ingest.Filter(a.Reviews, opts)}
		zap.L().Debug("analyze: filtered reviews",
			zap.String("agency", a.Name),
			zap.Int("before", len(a.Reviews)),
			zap.Int("after", len(out[i].Reviews)),
		)
	}
	return out
}

// aggregateFunc is the callback signature for building one agency report.
type aggregateFunc func(agency model.Agency, reviews []string) model.AgencyReport

// analysisResult is the outcome of processing every agency of a run.
type analysisResult struct {
	RunID   string
	Reports []model.AgencyReport
	Failed  []string
}

// runAnalysis records a run in st (when non-nil), processes the agencies
// and persists each report together with the run summary, which keeps the
// topN ranked agents.
func runAnalysis(ctx context.Context, st store.Store, sources []string, agencies []model.AgencyReviews, concurrency, topN int, agg aggregateFunc) (*analysisResult, error) {
	res := &analysisResult{}

	if st != nil {
		run, err := st.CreateRun(ctx, sources)
		if err != nil {
			return nil, eris.Wrap(err, "analyze: create run")
		}
		res.RunID = run.ID
	}

	res.Reports, res.Failed = processAgencies(ctx, agencies, concurrency, agg)

	if st == nil {
		return res, nil
	}

	log := zap.L().With(zap.String("run_id", res.RunID))
	for _, r := range res.Reports {
		if _, err := st.SaveReport(ctx, res.RunID, r); err != nil {
			log.Error("analyze: save report failed", zap.String("agency", r.AgencyName), zap.Error(err))
			if sErr := st.UpdateRunStatus(ctx, res.RunID, model.RunStatusFailed); sErr != nil {
				log.Warn("analyze: mark run failed", zap.Error(sErr))
			}
			return nil, eris.Wrap(err, "analyze: save report")
		}
	}

	totalReviews := 0
	for _, a := range agencies {
		totalReviews += len(a.Reviews)
	}
	summary := &model.RunResult{
		Agencies:       len(agencies),
		Reports:        len(res.Reports),
		FailedAgencies: res.Failed,
		TotalReviews:   totalReviews,
		TopAgents:      aggregate.TopAgents(res.Reports, topN),
	}
	if err := st.UpdateRunResult(ctx, res.RunID, summary); err != nil {
		return nil, eris.Wrap(err, "analyze: update run result")
	}
	return res, nil
}

// processAgencies aggregates agencies concurrently. A panic while
// processing one agency is logged and yields no report for that agency
// only. Reports keep the input order.
func processAgencies(ctx context.Context, agencies []model.AgencyReviews, concurrency int, agg aggregateFunc) ([]model.AgencyReport, []string) {
	if len(agencies) == 0 {
		zap.L().Info("no agencies to analyze")
		return []model.AgencyReport{}, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("processing agencies",
		zap.Int("agencies", len(agencies)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	slots := make([]*model.AgencyReport, len(agencies))
	var succeeded, failed atomic.Int64

	for i, a := range agencies {
		g.Go(func() error {
			log := zap.L().With(zap.String("agency", a.Name))

			if gctx.Err() != nil {
				failed.Add(1)
				log.Warn("agency skipped", zap.Error(gctx.Err()))
				return nil
			}

			report, err := safeAggregate(agg, a)
			if err != nil {
				failed.Add(1)
				log.Error("agency analysis failed", zap.Error(err))
				return nil // don't abort the run on individual failure
			}

			slots[i] = &report
			succeeded.Add(1)
			log.Info("agency analyzed",
				zap.Int("reviews", report.TotalReviews),
				zap.Int("with_agents", report.ReviewsWithAgents),
				zap.Int("agents", len(report.Agents)),
			)
			return nil
		})
	}
	_ = g.Wait()

	reports := make([]model.AgencyReport, 0, len(agencies))
	var failedNames []string
	for i, r := range slots {
		if r == nil {
			failedNames = append(failedNames, agencies[i].Name)
			continue
		}
		reports = append(reports, *r)
	}

	zap.L().Info("analysis complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return reports, failedNames
}

func safeAggregate(agg aggregateFunc, a model.AgencyReviews) (report model.AgencyReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("analyze: panic: %v", r)
		}
	}()
	return agg(a.Agency, a.Reviews), nil
}

// formatTopAgents writes the cross-agency agent ranking to w.
func formatTopAgents(out io.Writer, agents []model.RankedAgent) {
	if len(agents) == 0 {
		_, _ = fmt.Fprintln(out, "No agents found.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tAGENT\tMENTIONS\tAGENCY")
	_, _ = fmt.Fprintln(w, "-\t-----\t--------\t------")
	for i, a := range agents {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, a.Name, a.Mentions, a.AgencyName)
	}
	_ = w.Flush()
}
