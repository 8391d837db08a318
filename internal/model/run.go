package model

import "time"

// RunStatus represents the current state of an analysis run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one invocation of the analysis over a set of review dumps.
type Run struct {
	ID        string     `json:"id"`
	Sources   []string   `json:"sources"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	Agencies       int           `json:"agencies"`
	Reports        int           `json:"reports"`
	FailedAgencies []string      `json:"failed_agencies,omitempty"`
	TotalReviews   int           `json:"total_reviews"`
	TopAgents      []RankedAgent `json:"top_agents,omitempty"`
	Error          string        `json:"error,omitempty"`
}
