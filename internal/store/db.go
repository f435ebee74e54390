package store

import (
	"database/sql"
	"time"

	"covid-warehouse/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the run-tracking database and creates its tables.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		backend TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	taskTable := `
	CREATE TABLE IF NOT EXISTS task_runs (
		run_id TEXT,
		task TEXT,
		status TEXT,
		rows_written INTEGER,
		started_at DATETIME,
		finished_at DATETIME,
		PRIMARY KEY (run_id, task)
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		task TEXT,
		kind TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	for _, ddl := range []string{runTable, taskTable, errorTable} {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores a new pipeline run in pending state, with every task of
// the graph pre-registered as pending.
func SaveRun(runID, backend string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO runs (id, backend, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, backend, model.RunStatusPending, now, now)
	if err != nil {
		return err
	}
	for _, task := range model.AllTasks() {
		if _, err := db.Exec(`INSERT INTO task_runs (run_id, task, status, rows_written) VALUES (?, ?, ?, 0)`,
			runID, string(task), model.TaskStatusPending); err != nil {
			return err
		}
	}
	return nil
}

// UpdateRunStatus updates a run's overall status.
func UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunError records one task failure for a run.
func SaveRunError(runID string, task, kind string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, task, kind, error_message, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, task, kind, err.Error(), now)
	return e
}

// ListRuns returns all runs, newest first.
func ListRuns() ([]model.RunSummary, error) {
	rows, err := db.Query(`SELECT id, backend, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		var run model.RunSummary
		if err := rows.Scan(&run.ID, &run.Backend, &run.Status, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run.
func GetRun(runID string) (model.RunSummary, error) {
	var run model.RunSummary
	err := db.QueryRow(`SELECT id, backend, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&run.ID, &run.Backend, &run.Status, &run.CreatedAt, &run.UpdatedAt)
	return run, err
}

// GetRunTasks returns the per-task progress of a run in wave order.
func GetRunTasks(runID string) ([]model.TaskRun, error) {
	tasks := make(map[string]model.TaskRun)
	rows, err := db.Query(`SELECT task, status, rows_written, started_at, finished_at FROM task_runs WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tr model.TaskRun
		var task string
		if err := rows.Scan(&task, &tr.Status, &tr.RowsWritten, &tr.StartedAt, &tr.FinishedAt); err != nil {
			return nil, err
		}
		tr.RunID = runID
		tr.Task = model.TaskName(task)
		tasks[task] = tr
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var ordered []model.TaskRun
	for _, task := range model.AllTasks() {
		if tr, ok := tasks[string(task)]; ok {
			ordered = append(ordered, tr)
		}
	}
	return ordered, nil
}

// GetRunErrors returns all recorded errors of a run.
func GetRunErrors(runID string) ([]model.RunError, error) {
	rows, err := db.Query(`SELECT task, kind, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []model.RunError
	for rows.Next() {
		var re model.RunError
		if err := rows.Scan(&re.Task, &re.Kind, &re.Message, &re.CreatedAt); err != nil {
			return nil, err
		}
		re.RunID = runID
		errs = append(errs, re)
	}
	return errs, rows.Err()
}

func updateTask(runID string, task model.TaskName, status string, rows int, started, finished bool) error {
	now := time.Now().UTC()
	switch {
	case started:
		_, err := db.Exec(`UPDATE task_runs SET status = ?, started_at = ? WHERE run_id = ? AND task = ?`,
			status, now, runID, string(task))
		return err
	case finished:
		_, err := db.Exec(`UPDATE task_runs SET status = ?, rows_written = ?, finished_at = ? WHERE run_id = ? AND task = ?`,
			status, rows, now, runID, string(task))
		return err
	default:
		_, err := db.Exec(`UPDATE task_runs SET status = ? WHERE run_id = ? AND task = ?`,
			status, runID, string(task))
		return err
	}
}
