package model

import "time"

// Run statuses, in lifecycle order.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Task statuses within a run.
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
	TaskStatusSkipped   = "skipped"
)

// RunSummary is the tracking record of one pipeline run.
type RunSummary struct {
	ID        string    `json:"id"`
	Backend   string    `json:"backend"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskRun is the tracking record of one task within a run.
type TaskRun struct {
	RunID       string     `json:"runId"`
	Task        TaskName   `json:"task"`
	Status      string     `json:"status"`
	RowsWritten int        `json:"rowsWritten"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

// RunError is one recorded failure, tagged with the originating task and
// the error kind (fetch, schema or storage).
type RunError struct {
	RunID     string    `json:"runId"`
	Task      string    `json:"task"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
