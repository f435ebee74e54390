package store

import (
	"log"

	"covid-warehouse/internal/model"
)

// Recorder adapts the run store to the pipeline's Tracker interface.
// Tracking failures are logged, never propagated: a broken tracking
// database must not fail a data run.
type Recorder struct{}

func NewRecorder() Recorder {
	return Recorder{}
}

func (Recorder) TaskStarted(runID string, task model.TaskName) {
	if err := updateTask(runID, task, model.TaskStatusRunning, 0, true, false); err != nil {
		log.Printf("failed to record start of %s: %v", task, err)
	}
}

func (Recorder) TaskCompleted(runID string, task model.TaskName, rowsWritten int) {
	if err := updateTask(runID, task, model.TaskStatusCompleted, rowsWritten, false, true); err != nil {
		log.Printf("failed to record completion of %s: %v", task, err)
	}
}

func (Recorder) TaskFailed(runID string, task model.TaskName, kind string, taskErr error) {
	if err := updateTask(runID, task, model.TaskStatusFailed, 0, false, true); err != nil {
		log.Printf("failed to record failure of %s: %v", task, err)
	}
	if err := SaveRunError(runID, string(task), kind, taskErr); err != nil {
		log.Printf("failed to record error of %s: %v", task, err)
	}
}

func (Recorder) TaskSkipped(runID string, task model.TaskName) {
	if err := updateTask(runID, task, model.TaskStatusSkipped, 0, false, false); err != nil {
		log.Printf("failed to record skip of %s: %v", task, err)
	}
}
