package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"covid-warehouse/internal/model"
	"covid-warehouse/internal/storage"
)

// Fetcher retrieves a remote dataset snapshot as a table.
type Fetcher interface {
	FetchDataset(ctx context.Context, url string) (model.Table, error)
}

// Runner executes the fixed task graph against one storage backend. The
// graph is three waves: the primary fact ingest, the two dimension builds,
// then the four downstream fact ingests. Tasks inside a wave run
// concurrently; a task whose ancestor failed never starts.
type Runner struct {
	fetcher      Fetcher
	store        storage.Store
	tracker      Tracker
	urlOverrides map[string]string
}

func NewRunner(fetcher Fetcher, store storage.Store, tracker Tracker) *Runner {
	if tracker == nil {
		tracker = NopTracker{}
	}
	return &Runner{fetcher: fetcher, store: store, tracker: tracker}
}

// WithURLOverrides substitutes dataset URLs by dataset name.
func (r *Runner) WithURLOverrides(overrides map[string]string) *Runner {
	r.urlOverrides = overrides
	return r
}

// Run executes the whole pipeline for one run ID. It returns the joined
// errors of every failed task; skipped tasks contribute no error of their
// own since their ancestor already reported one.
func (r *Runner) Run(ctx context.Context, runID string) error {
	start := time.Now()
	fmt.Printf("🚀 Starting warehouse run %s\n", runID)

	completed := make(map[model.TaskName]bool)
	failed := make(map[model.TaskName]bool)
	var runErrs []error

	for _, wave := range model.Waves() {
		var runnable []model.TaskName
		for _, task := range wave {
			if ancestorFailed(task, failed) {
				fmt.Printf("⏭️  Skipping %s: ancestor failed\n", task)
				r.tracker.TaskSkipped(runID, task)
				failed[task] = true // dependents of a skipped task must not start either
				continue
			}
			runnable = append(runnable, task)
		}
		if len(runnable) == 0 {
			continue
		}

		results := r.runWave(ctx, runID, runnable)
		for task, err := range results {
			if err != nil {
				failed[task] = true
				runErrs = append(runErrs, err)
				continue
			}
			completed[task] = true
		}
	}

	duration := time.Since(start)
	if len(runErrs) > 0 {
		fmt.Printf("❌ Run %s finished with %d failed task(s) in %v\n", runID, len(runErrs), duration)
		return errors.Join(runErrs...)
	}
	fmt.Printf("🏁 Run %s completed: %d tasks in %v\n", runID, len(completed), duration)
	return nil
}

// runWave executes one wave's tasks concurrently and collects per-task
// results. No two tasks in a wave touch the same storage target, so no
// locking is needed beyond the result map.
func (r *Runner) runWave(ctx context.Context, runID string, tasks []model.TaskName) map[model.TaskName]error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[model.TaskName]error, len(tasks))

	wg.Add(len(tasks))
	for _, task := range tasks {
		go func(task model.TaskName) {
			defer wg.Done()

			fmt.Printf("➡️  Starting task %s\n", task)
			r.tracker.TaskStarted(runID, task)
			start := time.Now()

			rows, err := r.taskFunc(task)(ctx)

			mu.Lock()
			results[task] = err
			mu.Unlock()

			if err != nil {
				kind := string(errorKind(err))
				fmt.Printf("❌ Task %s failed: %v\n", task, err)
				r.tracker.TaskFailed(runID, task, kind, err)
				return
			}
			fmt.Printf("✅ Task %s completed: %d rows in %v\n", task, rows, time.Since(start))
			r.tracker.TaskCompleted(runID, task, rows)
		}(task)
	}
	wg.Wait()
	return results
}

func ancestorFailed(task model.TaskName, failed map[model.TaskName]bool) bool {
	for _, dep := range model.Dependencies[task] {
		if failed[dep] {
			return true
		}
	}
	return false
}

func errorKind(err error) ErrorKind {
	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		return taskErr.Kind
	}
	return ErrorKindStorage
}
