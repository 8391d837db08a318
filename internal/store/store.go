// Package store persists analysis runs and their agency reports.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agent-miner/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// ReportFilter specifies criteria for listing reports.
type ReportFilter struct {
	RunID  string `json:"run_id,omitempty"`
	Agency string `json:"agency,omitempty"` // agency name or ref
	Agent  string `json:"agent,omitempty"`  // canonical agent name, case-insensitive
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis results.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, sources []string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Reports
	SaveReport(ctx context.Context, runID string, report model.AgencyReport) (*model.StoredReport, error)
	GetReport(ctx context.Context, agency string) (*model.StoredReport, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]model.StoredReport, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the store selected by driver and migrates it. Driver "none"
// or "" returns a nil Store.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "", "none":
		return nil, nil
	case "sqlite":
		s, err = NewSQLite(dsn)
	case "postgres":
		s, err = NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

const defaultListLimit = 100

func listLimit(n int) int {
	if n <= 0 {
		return defaultListLimit
	}
	return n
}
