package pipeline

import (
	"fmt"

	"covid-warehouse/internal/model"
)

// ErrorKind classifies a task failure.
type ErrorKind string

const (
	// ErrorKindFetch covers network failures and malformed payloads.
	ErrorKindFetch ErrorKind = "fetch"
	// ErrorKindSchema covers a required column missing from a dataset.
	ErrorKindSchema ErrorKind = "schema"
	// ErrorKindStorage covers backend read and write failures.
	ErrorKindStorage ErrorKind = "storage"
)

// TaskError tags a failure with its originating task and kind. A run report
// can always say which task broke and whether the fault was the remote
// source, the dataset shape, or the backend.
type TaskError struct {
	Task model.TaskName
	Kind ErrorKind
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %s failure: %v", e.Task, e.Kind, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

func taskError(task model.TaskName, kind ErrorKind, err error) *TaskError {
	return &TaskError{Task: task, Kind: kind, Err: err}
}
