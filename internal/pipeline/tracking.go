package pipeline

import "covid-warehouse/internal/model"

// Tracker records task lifecycle events for a run. The SQLite run store
// implements it; tests use NopTracker.
type Tracker interface {
	TaskStarted(runID string, task model.TaskName)
	TaskCompleted(runID string, task model.TaskName, rowsWritten int)
	TaskFailed(runID string, task model.TaskName, kind string, err error)
	TaskSkipped(runID string, task model.TaskName)
}

// NopTracker discards all events.
type NopTracker struct{}

func (NopTracker) TaskStarted(string, model.TaskName)               {}
func (NopTracker) TaskCompleted(string, model.TaskName, int)        {}
func (NopTracker) TaskFailed(string, model.TaskName, string, error) {}
func (NopTracker) TaskSkipped(string, model.TaskName)               {}
