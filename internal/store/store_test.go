package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agent-miner/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleReport(name, ref string, agents ...string) model.AgencyReport {
	r := model.AgencyReport{
		AgencyName:        name,
		AgencyRef:         ref,
		TotalReviews:      10,
		ReviewsWithAgents: len(agents),
		Agents:            []model.AgentRecord{},
	}
	for i, a := range agents {
		r.Agents = append(r.Agents, model.AgentRecord{
			CanonicalName:      a,
			TotalMentions:      len(agents) - i,
			VariantNames:       []string{a},
			SampleTestimonials: []string{"Gracias a " + a},
		})
	}
	return r
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateAndGetRun", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run, err := s.CreateRun(ctx, []string{"a.json", "b.csv"})
		require.NoError(t, err)
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, model.RunStatusRunning, run.Status)

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, []string{"a.json", "b.csv"}, got.Sources)
		assert.Equal(t, model.RunStatusRunning, got.Status)
		assert.Nil(t, got.Result)
	})

	t.Run("UpdateRunStatus", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run, err := s.CreateRun(ctx, []string{"a.json"})
		require.NoError(t, err)
		require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed))

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusFailed, got.Status)
	})

	t.Run("UpdateRunResult", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run, err := s.CreateRun(ctx, []string{"a.json"})
		require.NoError(t, err)

		result := &model.RunResult{
			Agencies:       2,
			Reports:        1,
			FailedAgencies: []string{"Casas Y"},
			TotalReviews:   30,
			TopAgents:      []model.RankedAgent{{Name: "Pedro", Mentions: 4, AgencyName: "X"}},
		}
		require.NoError(t, s.UpdateRunResult(ctx, run.ID, result))

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusComplete, got.Status)
		require.NotNil(t, got.Result)
		assert.Equal(t, *result, *got.Result)
	})

	t.Run("UpdateMissingRun", func(t *testing.T) {
		s := newStore(t)
		err := s.UpdateRunStatus(context.Background(), "nope", model.RunStatusFailed)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("GetMissingRun", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetRun(context.Background(), "nope")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("ListRuns", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		r1, err := s.CreateRun(ctx, []string{"1.json"})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		r2, err := s.CreateRun(ctx, []string{"2.json"})
		require.NoError(t, err)
		require.NoError(t, s.UpdateRunStatus(ctx, r1.ID, model.RunStatusFailed))

		all, err := s.ListRuns(ctx, RunFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, r2.ID, all[0].ID, "newest first")

		failed, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, r1.ID, failed[0].ID)

		page, err := s.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, r1.ID, page[0].ID)
	})

	t.Run("SaveAndGetReport", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run, err := s.CreateRun(ctx, []string{"a.json"})
		require.NoError(t, err)

		report := sampleReport("Inmobiliaria X", "ref-x", "Pedro", "Ana")
		saved, err := s.SaveReport(ctx, run.ID, report)
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.Equal(t, run.ID, saved.RunID)

		byRef, err := s.GetReport(ctx, "ref-x")
		require.NoError(t, err)
		assert.Equal(t, saved.ID, byRef.ID)
		assert.Equal(t, report, byRef.Report)

		byName, err := s.GetReport(ctx, "Inmobiliaria X")
		require.NoError(t, err)
		assert.Equal(t, saved.ID, byName.ID)
	})

	t.Run("GetReportReturnsLatest", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run, err := s.CreateRun(ctx, []string{"a.json"})
		require.NoError(t, err)

		_, err = s.SaveReport(ctx, run.ID, sampleReport("X", "ref-x", "Pedro"))
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		latest, err := s.SaveReport(ctx, run.ID, sampleReport("X", "ref-x", "Pedro", "Ana"))
		require.NoError(t, err)

		got, err := s.GetReport(ctx, "ref-x")
		require.NoError(t, err)
		assert.Equal(t, latest.ID, got.ID)
		assert.Len(t, got.Report.Agents, 2)
	})

	t.Run("GetMissingReport", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetReport(context.Background(), "nope")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("ListReports", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run1, err := s.CreateRun(ctx, []string{"1.json"})
		require.NoError(t, err)
		run2, err := s.CreateRun(ctx, []string{"2.json"})
		require.NoError(t, err)

		_, err = s.SaveReport(ctx, run1.ID, sampleReport("X", "ref-x", "Pedro"))
		require.NoError(t, err)
		_, err = s.SaveReport(ctx, run1.ID, sampleReport("Y", "ref-y", "Ana", "Lucía"))
		require.NoError(t, err)
		_, err = s.SaveReport(ctx, run2.ID, sampleReport("Z", "", "Ana"))
		require.NoError(t, err)

		all, err := s.ListReports(ctx, ReportFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		byRun, err := s.ListReports(ctx, ReportFilter{RunID: run1.ID})
		require.NoError(t, err)
		assert.Len(t, byRun, 2)

		byAgent, err := s.ListReports(ctx, ReportFilter{Agent: "ana"})
		require.NoError(t, err)
		assert.Len(t, byAgent, 2)

		byAgency, err := s.ListReports(ctx, ReportFilter{Agency: "Z"})
		require.NoError(t, err)
		require.Len(t, byAgency, 1)
		assert.Equal(t, "Z", byAgency[0].Report.AgencyName)

		limited, err := s.ListReports(ctx, ReportFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "none", "")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, "sqlite", filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	require.NotNil(t, s)
	_, err = s.CreateRun(ctx, []string{"x"})
	assert.NoError(t, err, "migrated on open")
	require.NoError(t, s.Close())

	_, err = Open(ctx, "mysql", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
